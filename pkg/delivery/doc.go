// Package delivery collects messages before they are sent.
//
// A Delivery is filled by the caller over any period of time and then
// handed to connecto.Client.Deliver, which sends track messages and
// identify messages in size-bounded batches.
//
//	d := delivery.New()
//	if err := d.Add(login); err != nil {
//	    // err wraps message.ErrInvalidMessage
//	}
//	if err := client.Deliver(ctx, d); err != nil {
//	    return err
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package delivery
