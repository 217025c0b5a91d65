// Package server exposes a shared cache over the network.
//
// The wire format is one request per line:
//
//	GET <key>                 -> VALUE <value> | NOT_FOUND
//	SET <key> <ttl> <value>   -> OK   (ttl is a Go duration, "-" for the default)
//	DEL <key>                 -> OK
//	LEN                       -> LEN <n>
//
// A line that is not a command is looked up as a key. Errors are answered
// with "ERR <message>". The same text is carried in the first frame of
// ZeroMQ request messages.
package server
