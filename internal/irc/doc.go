// Package irc is a client-side IRC protocol engine. A System owns one
// connection, logs in, and turns the wire protocol into chat.Model events
// and changes on an Identity and its Channels and Users.
package irc

// The implementation is split across:
// - system.go: public API, everything queued to the interactor
// - interactor.go: the mailbox loop, reply taps, shutdown
// - decode.go, encode.go: wire lines in and out
// - command.go, ctcp.go, replyhandlers.go, names.go: message handlers
// - identity.go, channel.go, user.go: entity state

/*
Handler Summary:

Registration:
- PASS/USER/NICK (login): NICK is tapped for 001, 432, 433, 436, 464, 465
  - 001 seeds and registers the identity, then joins the configured channels
  - any other tapped code is reported and ends the session

Commands:
- JOIN/PART/KICK: channel membership; the local user joining or leaving
  flips the channel's joined state
- NICK: renames the user and reports it in every channel the user is in
- QUIT: reports in the user's channels and forgets the user
- TOPIC, MODE, INVITE, ERROR: informational messages
- PRIVMSG/NOTICE: user speech; CTCP framed payloads go to ctcp.go
- PING: answered with PONG

CTCP:
- ACTION: speech, with "'s " (possessive) and "verb: " prefixes
- CLIENTINFO, ECHO, FINGER, PING, TIME, USERINFO, VERSION: answered
- DCC, SED, UTC, unknown verbs: answered with ERRMSG
- replies (NOTICE): shown to the sending user's locus

Numeric replies: routed by the reply table (replytable.go)
- 301 away, 322 list, 332/333 topic, 352 who, 353/366 names
- 405/471/473/474/475: join refused, channel forced to left
- codes absent from the table: raw code and arguments, routed like ToChannel
*/
