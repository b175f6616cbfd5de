package irc

// DefaultListBatch is the listing batch size used when none is given.
const DefaultListBatch = 50

// ChannelListing is one line of a channel list.
type ChannelListing struct {
	Name  string
	Users int
	Topic string
}

type batchState int

const (
	accumulating batchState = iota
	flushed
)

// listCollector is the reply tap behind List. It hands listings to fn in
// batches of at most limit and moves to flushed after the final batch.
type listCollector struct {
	sys   *System
	limit int
	fn    func(batch []ChannelListing, last bool)

	state batchState
	batch []ChannelListing
}

func newListCollector(s *System, limit int, fn func([]ChannelListing, bool)) *listCollector {
	if limit <= 0 {
		limit = DefaultListBatch
	}
	return &listCollector{sys: s, limit: limit, fn: fn}
}

func (c *listCollector) handle(r *ServerReply) bool {
	if c.state == flushed {
		return true
	}
	if r == nil {
		c.flush(true)
		return true
	}

	switch r.Code {
	case RplListStart:
		return false
	case RplList:
		repliesRouted.WithLabelValues(Handled.String()).Inc()
		if l, ok := c.sys.recordListing(r); ok {
			c.batch = append(c.batch, l)
		}
		if len(c.batch) >= c.limit {
			c.flush(false)
		}
		return false
	case RplListEnd:
		c.flush(true)
		return true
	}
	return false
}

func (c *listCollector) flush(last bool) {
	if len(c.batch) == 0 && !last {
		return
	}
	batch := c.batch
	c.batch = nil
	if last {
		c.state = flushed
	}
	if c.fn != nil {
		c.fn(batch, last)
	}
}
