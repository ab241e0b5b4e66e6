// Package relay exposes the remote over a WebSocket.
//
// Clients send one JSON object per text message and receive a result for
// each:
//
//	-> {"action":"up"}
//	<- {"type":"result","action":"up","ok":true}
//	-> {"action":"launch","app":"plex"}
//	<- {"type":"result","action":"launch","ok":false,"error":"no installed app matches \"plex\""}
//
// A "hello" message carrying the device name and version is sent on
// connect. Commands from every connection go through one
// remote.Dispatcher and so reach the device in order.
package relay
