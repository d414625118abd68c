// Package generate runs one prospect-list generation: it validates the
// request, composes the prompt, makes a single call to the completion
// provider and prices the result.
//
// Service.Generate is total. Every failure, including panics, comes back as
// a Result carrying a Failure with an ErrorKind and a message a user can act
// on. The only error it returns is the caller's own context error, when the
// context is cancelled before a result exists.
//
//	svc := generate.New(cfg, client,
//	    generate.WithStore(template.NewStore("config/prompts.yaml")),
//	    generate.WithLogger(logger),
//	)
//	res, err := svc.Generate(ctx, generate.Request{
//	    BusinessDesc: "B2B logistics SaaS",
//	    Specs:        "mid-market, regional",
//	})
//	if err != nil {
//	    return err // cancelled
//	}
//	if res.Failure != nil {
//	    fmt.Println(res.Failure.Kind, res.Failure.Message)
//	}
package generate
