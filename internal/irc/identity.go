package irc

import (
	"sort"

	"github.com/dalnet/ircengine/internal/chat"
)

// Identity is the local user's view of the network: the known users and
// channels, indexed by canonical name. Only the interactor goroutine touches
// it once a session is connected.
type Identity struct {
	sys  *System
	self *User

	// nicks maps canonical wire nicknames to users; names maps canonical
	// display names. Both hold exactly the known users.
	nicks    map[string]*User
	names    map[string]*User
	channels map[string]*Channel

	registered bool
}

func newIdentity(sys *System) *Identity {
	id := &Identity{sys: sys}
	id.clear()
	return id
}

func (id *Identity) clear() {
	id.self = nil
	id.nicks = make(map[string]*User)
	id.names = make(map[string]*User)
	id.channels = make(map[string]*Channel)
	id.registered = false
}

func (id *Identity) Kind() chat.LocusKind { return chat.KindIdentity }

// Name is the local nickname, or the configured one before login.
func (id *Identity) Name() string {
	if id.self != nil {
		return id.self.nick
	}
	if id.sys != nil && id.sys.cfg != nil {
		return id.sys.cfg.Nick
	}
	return ""
}

// Self is the local user, nil until the login handshake succeeds.
func (id *Identity) Self() *User { return id.self }

// Registered reports whether the identity has been handed to the model.
func (id *Identity) Registered() bool { return id.registered }

func (id *Identity) notify(ch chat.Change) {
	if id.sys != nil {
		id.sys.notify(ch)
	}
}

// seed creates the local user under the negotiated nickname.
func (id *Identity) seed(nick string) *User {
	u := id.userFor(nick)
	id.self = u
	return u
}

func (id *Identity) register() {
	if id.registered {
		return
	}
	id.registered = true
	id.notify(chat.Change{Kind: chat.IdentityRegistered, Locus: id, Name: id.Name()})
}

// reset forgets everything derived from the connection.
func (id *Identity) reset() {
	wasRegistered := id.registered
	name := id.Name()
	id.clear()
	if wasRegistered {
		id.notify(chat.Change{Kind: chat.IdentityUnregistered, Locus: id, Name: name})
	}
}

// User looks up a known user by wire nickname.
func (id *Identity) User(nick string) *User {
	return id.nicks[CanonicalUser(nick)]
}

// UserByName looks up a known user by display name.
func (id *Identity) UserByName(name string) *User {
	return id.names[CanonicalUser(name)]
}

// Channel looks up a known channel.
func (id *Identity) Channel(name string) *Channel {
	return id.channels[CanonicalChannel(name)]
}

// Users returns the known users sorted by nickname.
func (id *Identity) Users() []*User {
	out := make([]*User, 0, len(id.nicks))
	for _, u := range id.nicks {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return foldCase(out[i].nick) < foldCase(out[j].nick) })
	return out
}

// Channels returns the known channels sorted by name.
func (id *Identity) Channels() []*Channel {
	out := make([]*Channel, 0, len(id.channels))
	for _, c := range id.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// channelFor returns the channel called name, creating it if needed. It
// returns nil for names that are not channel names.
func (id *Identity) channelFor(name string) *Channel {
	key := CanonicalChannel(name)
	if key == "" {
		return nil
	}
	if c := id.channels[key]; c != nil {
		return c
	}
	c := newChannel(id, name)
	id.channels[key] = c
	id.notify(chat.Change{Kind: chat.ChannelAdded, Locus: c, Name: name})
	return c
}

// userFor returns the user with wire nickname nick, creating it if needed.
// A new nickname that collides with the display name of a user known under
// a different nickname first makes that user adopt its nickname as display
// name, freeing the name for the newcomer.
func (id *Identity) userFor(nick string) *User {
	key := CanonicalUser(nick)
	if key == "" {
		return nil
	}
	if u := id.nicks[key]; u != nil {
		return u
	}
	if other := id.names[key]; other != nil {
		id.adoptNick(other)
	}
	u := newUser(id, nick)
	id.nicks[key] = u
	id.names[key] = u
	id.notify(chat.Change{Kind: chat.UserAdded, Locus: id, Subject: u, Name: nick})
	return u
}

// adoptNick makes u's display name its wire nickname.
func (id *Identity) adoptNick(u *User) {
	if u.name == u.nick {
		return
	}
	key := foldCase(u.nick)
	if other := id.names[key]; other != nil && other != u {
		id.adoptNick(other)
	}
	old := u.name
	delete(id.names, foldCase(old))
	u.name = u.nick
	u.extra = ""
	id.names[key] = u
	id.notify(chat.Change{Kind: chat.UserRenamed, Locus: id, Subject: u, Name: u.name, Detail: old})
}

// renameUser applies a nickname change seen on the wire, keeping both
// indexes in step with the user's new identity. It reports false, changing
// nothing, when nick is invalid or held by the local user.
func (id *Identity) renameUser(u *User, nick string) bool {
	oldNick := u.nick
	oldKey, newKey := foldCase(oldNick), CanonicalUser(nick)
	if newKey == "" {
		return false
	}
	if stale := id.nicks[newKey]; stale != nil && stale != u {
		if stale == id.self {
			return false
		}
		id.removeUser(stale)
	}
	delete(id.nicks, oldKey)
	id.nicks[newKey] = u

	prevName := u.name
	if oldName, renamed := u.lastKnownNick(nick); renamed {
		delete(id.names, foldCase(oldName))
		if other := id.names[foldCase(u.name)]; other != nil && other != u {
			id.adoptNick(other)
		}
		id.names[foldCase(u.name)] = u
	}
	id.notify(chat.Change{Kind: chat.UserRenamed, Locus: id, Subject: u, Name: u.name, Detail: prevName})
	return true
}

// removeUser forgets a user that left the network. The local user is never
// removed.
func (id *Identity) removeUser(u *User) {
	if u == nil || u == id.self {
		return
	}
	u.clearChannels()
	if id.nicks[foldCase(u.nick)] == u {
		delete(id.nicks, foldCase(u.nick))
	}
	if id.names[foldCase(u.name)] == u {
		delete(id.names, foldCase(u.name))
	}
	id.notify(chat.Change{Kind: chat.UserRemoved, Locus: id, Subject: u, Name: u.name})
}

// channelless returns the known users, other than the local user, that are
// in no channel.
func (id *Identity) channelless() []*User {
	var out []*User
	for _, u := range id.nicks {
		if u != id.self && len(u.channels) == 0 {
			out = append(out, u)
		}
	}
	return out
}
