package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldCase(t *testing.T) {
	assert.Equal(t, "{joe}|^", foldCase("[JOE]\\~"))
	assert.Equal(t, CanonicalUser("Joe[away]"), CanonicalUser("joe{AWAY}"))
}

func TestNameShapes(t *testing.T) {
	tests := []struct {
		name    string
		channel bool
		user    bool
	}{
		{"#go", true, false},
		{"&local", true, false},
		{"+modeless", true, false},
		{"!12345abc", true, false},
		{"#", false, false},
		{"joe", false, true},
		{"j", false, true},
		{"", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.channel, IsChannelName(tt.name), "IsChannelName(%q)", tt.name)
		assert.Equal(t, tt.user, IsUserName(tt.name), "IsUserName(%q)", tt.name)
	}
}

func TestCanonicalRejectsWrongShape(t *testing.T) {
	assert.Equal(t, "", CanonicalChannel("joe"))
	assert.Equal(t, "", CanonicalUser("#go"))
	assert.Equal(t, "#go", CanonicalChannel("#Go"))
}

func TestStripMemberPrefix(t *testing.T) {
	assert.Equal(t, "joe", stripMemberPrefix("@joe"))
	assert.Equal(t, "joe", stripMemberPrefix("@+joe"))
	assert.Equal(t, "joe", stripMemberPrefix("joe"))
}
