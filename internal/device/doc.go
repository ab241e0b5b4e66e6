// Package device is a thin client for the External Control Protocol (ECP)
// spoken by Roku players on TCP port 8060.
//
// Every remote button maps to one HTTP request:
//
//	POST /keypress/<Key>      navigation, playback, volume, power
//	POST /keypress/Lit_<c>    type one character
//	GET  /query/apps          installed channels (XML)
//	POST /launch/<app-id>     start a channel
//	GET  /query/active-app    channel in the foreground
//	GET  /query/device-info   model, serial and software version
//
// # Usage Example
//
//	client, err := device.NewClient("192.168.1.144")
//	if err != nil {
//	    return err
//	}
//
//	if err := client.Keypress(ctx, device.KeyHome); err != nil {
//	    fmt.Println(device.GetShortErrorMessage(err))
//	}
//
//	app, err := client.LaunchMatching(ctx, "plex")
//
// Requests that fail for transient reasons (timeouts, refused connections,
// 5xx responses) are retried with exponential backoff. Errors are returned
// as *DeviceError so callers can show a short message and hints.
package device
