package irc

import (
	"sort"
	"time"

	"github.com/dalnet/ircengine/internal/chat"
)

// Channel is a channel known to the local identity, joined or not.
type Channel struct {
	id  *Identity
	key string

	name        string
	joined      bool
	topic       string
	topicAuthor string
	topicTime   time.Time
	listed      int

	members map[*User]struct{}
}

func newChannel(id *Identity, name string) *Channel {
	return &Channel{
		id:      id,
		key:     foldCase(name),
		name:    name,
		members: make(map[*User]struct{}),
	}
}

func (c *Channel) Kind() chat.LocusKind { return chat.KindChannel }
func (c *Channel) Name() string { return c.name }

// Joined reports whether the local user is in the channel.
func (c *Channel) Joined() bool { return c.joined }

func (c *Channel) Topic() string { return c.topic }
func (c *Channel) TopicAuthor() string { return c.topicAuthor }
func (c *Channel) TopicTime() time.Time { return c.topicTime }

// ListedUsers is the visible user count from the last channel listing.
func (c *Channel) ListedUsers() int { return c.listed }

// Members returns the known members sorted by nickname.
func (c *Channel) Members() []*User {
	out := make([]*User, 0, len(c.members))
	for u := range c.members {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return foldCase(out[i].nick) < foldCase(out[j].nick) })
	return out
}

// HasMember reports whether u is a member.
func (c *Channel) HasMember(u *User) bool {
	_, ok := c.members[u]
	return ok
}

func (c *Channel) addMember(u *User) {
	if _, ok := c.members[u]; ok {
		return
	}
	c.members[u] = struct{}{}
	u.channels[c] = struct{}{}
	c.id.notify(chat.Change{Kind: chat.MemberAdded, Locus: c, Subject: u, Name: u.name})
}

func (c *Channel) removeMember(u *User) {
	if _, ok := c.members[u]; !ok {
		return
	}
	delete(c.members, u)
	delete(u.channels, c)
	c.id.notify(chat.Change{Kind: chat.MemberRemoved, Locus: c, Subject: u, Name: u.name})
}

// replaceMembers swaps the member set wholesale for users.
func (c *Channel) replaceMembers(users []*User) {
	keep := make(map[*User]struct{}, len(users))
	for _, u := range users {
		keep[u] = struct{}{}
	}
	for u := range c.members {
		if _, ok := keep[u]; !ok {
			c.removeMember(u)
		}
	}
	for _, u := range users {
		c.addMember(u)
	}
}

// setJoined records the local user's join state; leaving also forgets the
// member list, which is only tracked for joined channels.
func (c *Channel) setJoined(joined bool) {
	if c.joined == joined {
		return
	}
	c.joined = joined
	if joined {
		if self := c.id.self; self != nil {
			c.addMember(self)
		}
		c.id.notify(chat.Change{Kind: chat.Joined, Locus: c, Name: c.name})
		return
	}
	for u := range c.members {
		c.removeMember(u)
	}
	c.id.notify(chat.Change{Kind: chat.Left, Locus: c, Name: c.name})
}

func (c *Channel) setTopic(topic string) {
	c.topic = topic
	c.id.notify(chat.Change{Kind: chat.TopicChanged, Locus: c, Name: c.name, Detail: topic})
}
