// Package stream publishes frames to browser clients over a WebSocket.
//
// Each message is one JSON [FrameMsg]. Clients that fall behind by more
// than the hub buffer are disconnected rather than slowing the tick loop.
package stream
