// Package elf runs secret gift exchanges.
//
// Every participant is assigned one recipient per round under three rules:
// nobody draws themselves, nobody draws their paired partner, and nobody
// draws the same person twice across rounds. After the rounds are drawn each
// participant privately receives the list of people they were assigned.
//
// # Quick Start
//
//	cfg := elf.DefaultConfig()
//	creds, err := elf.LoadCredentials() // EMAIL_USERNAME, EMAIL_PASSWORD
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	renderer, _ := notify.NewRenderer(cfg.Mail.Signature, cfg.Mail.SubjectTemplate)
//	mailer, _ := notify.NewSMTP(notify.SMTPConfig{
//	    Host:     cfg.Mail.Host,
//	    Username: creds.Username,
//	    Password: creds.Password,
//	}, renderer)
//
//	strat, _ := elf.NewStrategy(cfg.Draw)
//	ex, err := elf.NewExchange(&cfg, source.NewYAMLFile("elves.yml"), strat, mailer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := ex.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Roster
//
// The roster document maps names to an email address and an optional
// significant other:
//
//	Ann:
//	  email: ann@example.com
//	  significant: Bo
//	Bo:
//	  email: bo@example.com
//	  significant: Ann
//	Cy:
//	  email: cy@example.com
//
// Document order is the draw order. Partner links are used exactly as
// written unless DrawConfig.SymmetricPartners is set.
//
// # Drawing
//
// Before sampling, the exchange proves a valid round exists by finding a
// perfect matching between givers and allowed recipients. Impossible rounds
// fail immediately with a *DrawError wrapping ErrInfeasibleRound instead of
// looping. The default rejection strategy shuffles until a valid round comes
// up, bounded by DrawConfig.MaxAttempts:
//
//	round, err := ex.DrawRound(ctx)
//	var drawErr *elf.DrawError
//	if errors.As(err, &drawErr) {
//	    log.Printf("round %d failed after %d attempts: %v", drawErr.Round, drawErr.Attempts, drawErr.Err)
//	}
//
// A failed draw never changes any participant's history.
//
// See the examples/ directory for complete working examples.
package elf
