package llm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackAlwaysNonEmpty(t *testing.T) {
	f := NewFallback(rand.NewSource(42))

	inputs := []string{
		"I feel terrible today",
		"tell me a story",
		"narrate something for me",
		"write a script",
		"what can you do",
		"completely unrelated input",
		"",
	}
	for _, input := range inputs {
		assert.NotEmpty(t, f.Reply(input), "input %q", input)
	}
}

func TestFallbackDeterministicUnderSeed(t *testing.T) {
	a := NewFallback(rand.NewSource(7))
	b := NewFallback(rand.NewSource(7))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Reply("tell me a story"), b.Reply("tell me a story"))
	}
}

func TestFallbackMatchesMoodBucket(t *testing.T) {
	f := NewFallback(rand.NewSource(1))

	reply := f.Reply("I feel overwhelmed")
	found := false
	for _, want := range fallbackBuckets[0].replies {
		if reply == want {
			found = true
		}
	}
	assert.True(t, found, "reply %q not from the mood bucket", reply)
}

func TestFallbackGeneralBucketWhenNothingMatches(t *testing.T) {
	f := NewFallback(rand.NewSource(1))

	reply := f.Reply("xyzzy")
	general := fallbackBuckets[len(fallbackBuckets)-1].replies
	found := false
	for _, want := range general {
		if reply == want {
			found = true
		}
	}
	assert.True(t, found, "reply %q not from the general bucket", reply)
}
