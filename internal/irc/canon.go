package irc

import "strings"

// channelSigils are the characters a channel name may start with.
const channelSigils = "#&+!"

// memberPrefixes are the status characters a names reply puts before a nick.
const memberPrefixes = "~&@%+"

// foldCase applies RFC 1459 case mapping.
func foldCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '[':
			return '{'
		case r == ']':
			return '}'
		case r == '\\':
			return '|'
		case r == '~':
			return '^'
		}
		return r
	}, s)
}

// IsChannelName reports whether name is a valid channel name.
func IsChannelName(name string) bool {
	return len(name) >= 2 && strings.IndexByte(channelSigils, name[0]) >= 0
}

// IsUserName reports whether name can be a nickname.
func IsUserName(name string) bool {
	return name != "" && strings.IndexByte(channelSigils, name[0]) < 0
}

// CanonicalChannel returns the index key for a channel name, or "" if the
// name is not a valid channel.
func CanonicalChannel(name string) string {
	if !IsChannelName(name) {
		return ""
	}
	return foldCase(name)
}

// CanonicalUser returns the index key for a nickname, or "" if the name is
// not a valid nickname.
func CanonicalUser(name string) string {
	if !IsUserName(name) {
		return ""
	}
	return foldCase(name)
}

// stripMemberPrefix removes the names-reply status characters from a nick.
func stripMemberPrefix(nick string) string {
	return strings.TrimLeft(nick, memberPrefixes)
}
