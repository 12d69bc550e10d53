// Package api is a client for the run API: authenticated POST calls to
// {endpoint}/api/run/{path} that answer with a JSON document.
//
// Basic Usage:
//
//	client, err := api.New(api.Config{
//	    APIEndpoint: "https://example.com",
//	    Username:    "site",
//	    Password:    "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Invoke(ctx, "/offer/create", api.Params{
//	    "name":  "Test User",
//	    "items": []int{1, 2, 3},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !resp.IsSuccess() {
//	    for _, msg := range resp.ErrorsCombined() {
//	        fmt.Println(msg)
//	    }
//	}
//	zip := resp.Get("user.address.zip", 0)
//
// Requests:
//
// Parameters are sent as a form body. String values are sent unchanged, every
// other value as its JSON text, and an "auth" field carrying the credentials
// as {"username":...,"password":...} is always added.
//
// Errors:
//
// Invoke either returns a Response or one of *ConfigurationError,
// *TransportError and *DecodeError, which also match ErrConfiguration,
// ErrTransport and ErrDecode with errors.Is. Nothing is retried.
//
// Transports:
//
// The default transport uses net/http; NewRestyTransport provides a
// go-resty based alternative. Both honour TransportOptions: connect timeout
// (10s), total timeout (60s), user agent and redirect policy (follow, at most
// 2 hops).
//
// Thread Safety:
//
// Invoke itself holds no shared state besides the client configuration, so
// concurrent calls are fine as long as nobody calls the setters meanwhile.
package api
