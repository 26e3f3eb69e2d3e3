// Package connecto is a client for the Connecto analytics service.
//
// Messages are built with a message.Builder, collected in a
// delivery.Delivery and sent with Client.Deliver:
//
//	client, err := connecto.New(connecto.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := client.Builder("your-write-key")
//	d := delivery.New()
//	login, err := b.Event("user-42", "login", map[string]any{"plan": "pro"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := d.Add(login); err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Deliver(ctx, d); err != nil {
//	    var rejected *connecto.ServerRejectionError
//	    if errors.As(err, &rejected) {
//	        log.Printf("refused: %v", rejected.Batch.MessageIDs())
//	    }
//	}
//
// # Batching
//
// Deliver sends every track message and then every identify message, in
// batches of at most Config.MaxBatchSize. The first batch that is refused
// or cannot be transmitted ends the delivery with a ServerRejectionError
// or a TransportError carrying that batch. Earlier batches were accepted
// and stay accepted.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// every batch. Handlers run synchronously inside Deliver.
//
// # Dependency Injection
//
//	client, err := connecto.New(cfg,
//	    connecto.WithHTTPClient(mockClient),
//	    connecto.WithLogger(customLogger),
//	)
//
// [WithSender] replaces the HTTP transport entirely.
package connecto
