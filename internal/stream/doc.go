// Package stream feeds text from a producer into a streaming cursor.
//
// A Source yields chunks until it returns io.EOF. Pump copies chunks from a
// Source to a Writer in arrival order and always closes the Writer, whether
// the source ends, fails or the context is canceled.
//
// Sources are provided for readers, channels and the OpenAI and Anthropic
// streaming APIs:
//
//	c, _ := surface.SpawnCursor()
//	src := stream.NewReaderSource(os.Stdin, 64)
//	stats, err := stream.Pump(ctx, src, c)
package stream
