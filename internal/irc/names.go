package irc

import "strings"

// namesBatch accumulates name-list replies until the list ends. Channel
// lists replace the channel's members; the channel-less list ("*")
// reconciles the identity's users that are in no channel.
type namesBatch struct {
	channels map[string][]*User

	channelless []*User
	open        bool
}

func newNamesBatch() *namesBatch {
	return &namesBatch{channels: make(map[string][]*User)}
}

// add records one 353 line. channel is empty for the channel-less list.
func (b *namesBatch) add(id *Identity, channel, nicks string) {
	var users []*User
	for _, tok := range strings.Fields(nicks) {
		nick := stripMemberPrefix(tok)
		nick, _, _ = strings.Cut(nick, "!")
		if u := id.userFor(nick); u != nil {
			users = append(users, u)
		}
	}

	if c := id.channelFor(channel); c != nil {
		b.channels[c.key] = append(b.channels[c.key], users...)
		return
	}
	b.open = true
	b.channelless = append(b.channelless, users...)
}

// finish applies the list that ended with a 366 for name.
func (b *namesBatch) finish(id *Identity, name string) {
	if key := CanonicalChannel(name); key != "" {
		users, pending := b.channels[key]
		delete(b.channels, key)
		c := id.channels[key]
		if c == nil {
			return
		}
		if pending || c.joined {
			c.replaceMembers(users)
		}
		return
	}

	if !b.open && name != "*" {
		return
	}
	batch := b.channelless
	b.channelless, b.open = nil, false
	b.reconcile(id, batch)
}

// reconcile applies a channel-less user list: users on it lose their
// channels, channel-less users missing from it have logged off.
func (b *namesBatch) reconcile(id *Identity, batch []*User) {
	seen := make(map[*User]bool, len(batch))
	for _, u := range batch {
		seen[u] = true
	}
	for _, users := range b.channels {
		for _, u := range users {
			seen[u] = true
		}
	}

	for _, u := range id.channelless() {
		if !seen[u] {
			id.removeUser(u)
		}
	}
	for _, u := range batch {
		if u != id.self {
			u.clearChannels()
		}
	}
}

func (b *namesBatch) reset() {
	b.channels = make(map[string][]*User)
	b.channelless, b.open = nil, false
}
