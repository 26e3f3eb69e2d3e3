// Package segment queries the Connecto rules endpoint for the segments a
// user currently matches.
//
// The request is authenticated with the project's read key, which is
// distinct from the write key used to send messages.
//
//	c := segment.NewClient(http.DefaultClient, segment.DefaultEndpoint, time.Minute, logger)
//	resp, err := c.Get(ctx, readKey, "user-42")
//	if err != nil {
//	    return err
//	}
//	if resp.Available {
//	    for _, s := range resp.Segments {
//	        fmt.Println(s.ID, s.Title)
//	    }
//	}
package segment
