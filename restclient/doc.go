// Package restclient executes Pusher REST API requests over HTTP.
//
// A Request describes the call: GET or POST, a resource path relative to
// the configured base URL, and for POST a JSON body. Four operations run it:
//
//   - ExecuteGet and ExecuteGetAsync return a Result[T] whose body is
//     decoded as T on access
//   - Client.ExecutePost and Client.ExecutePostAsync return a TriggerResult
//
// Every request carries Accept: application/json and the library name and
// version headers. POST requests also carry Content-Type: application/json.
// A call is exactly one round trip: the client never retries.
//
// Non-2xx responses are returned as results together with a classified
// *Error, so callers can inspect both the status and the body.
//
// # Basic Usage
//
//	client, err := restclient.New(restclient.Config{
//	    BaseURL:        "https://api-eu.pusher.com",
//	    LibraryName:    "pusher-http-go",
//	    LibraryVersion: "1.2.0",
//	})
//
//	res, err := restclient.ExecuteGet[ChannelList](ctx, client,
//	    restclient.NewGetRequest("/apps/123/channels"))
//
//	pending := client.ExecutePostAsync(ctx,
//	    restclient.NewPostRequest("/apps/123/events", event))
//	trig, err := pending.Wait(ctx)
package restclient
