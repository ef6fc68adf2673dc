// Package ws streams lane scorecards to WebSocket clients.
//
// New(store, interval) creates a Hub. Hub.Run(ctx) pushes every live lane to
// all connected clients on each tick and closes the connections once ctx is
// cancelled. Hub.ServeHTTP upgrades a request, sends the lanes immediately and
// then keeps the client subscribed to the ticker.
//
// Message format sent to clients:
//
//	{
//	  "event": "lanes",
//	  "data":  { "lanes": [ /* GET /api/v1/lanes entries */ ], "generated_at": "..." }
//	}
//
// The upgrader accepts all origins. pinsetterd mounts the hub at /ws/stream.
package ws
