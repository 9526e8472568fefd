package llm

import (
	"math/rand"
	"strings"
	"sync"
)

// Fallback supplies canned assistant replies when generation fails. The reply
// is picked from the first topic bucket whose keywords match the user input,
// with a caller-supplied random source so tests can pin the choice.
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewFallback(src rand.Source) *Fallback {
	return &Fallback{rng: rand.New(src)}
}

type fallbackBucket struct {
	keywords []string
	replies  []string
}

// Buckets are matched in order; the last one has no keywords and always
// matches.
var fallbackBuckets = []fallbackBucket{
	{
		keywords: []string{"feel", "feeling", "mood", "sad", "anxious", "stressed", "overwhelmed", "depressed", "lonely"},
		replies: []string{
			"It sounds like a lot is on your mind right now. Whatever you're feeling is valid, and taking a moment to notice it is already a step.",
			"Thank you for sharing that with me. Emotions can be heavy to carry; would it help to talk through what's behind this one?",
			"I hear you. Sometimes naming a feeling out loud makes it a little easier to hold. I'm here whenever you want to keep going.",
		},
	},
	{
		keywords: []string{"story", "tale", "once upon"},
		replies: []string{
			"Here's a small one: a lighthouse keeper found a message in a bottle that only said \"keep the light on.\" So she did, every night, and ships she never met made it home because of her.",
			"A traveler once asked a mountain how it stayed so calm. The mountain said nothing for a hundred years, and the traveler, waiting, learned the answer.",
		},
	},
	{
		keywords: []string{"narrat", "voice", "voiceover"},
		replies: []string{
			"Picture this, in a slow and steady voice: the morning unfolds quietly, light spilling across the floor, and for a moment everything is exactly where it should be.",
			"In a warm narrator's tone: our scene opens on an ordinary day, which is where all the best stories tend to begin.",
		},
	},
	{
		keywords: []string{"script", "screenplay", "write", "content", "create"},
		replies: []string{
			"Here's a starting point you could build on: open with a single line of dialogue that raises a question, then hold the answer back for one more scene.",
			"A simple structure that rarely fails: someone wants something, something stands in the way, and what they do about it tells us who they are.",
		},
	},
	{
		keywords: []string{"help", "how do", "what can"},
		replies: []string{
			"I can chat with you, help you track how you're feeling day to day, and put together stories or scripts when you want something creative.",
			"You can just talk to me, or log a mood for today and I'll keep an eye on your trends over time.",
		},
	},
	{
		replies: []string{
			"I'm having a little trouble reaching my usual brain right now, but I'm still here. Tell me more?",
			"That's worth unpacking. What's the part of it that matters most to you?",
			"I didn't quite get my thoughts together on that one. Could you say it another way?",
		},
	},
}

// Reply always returns non-empty text.
func (f *Fallback) Reply(input string) string {
	lower := strings.ToLower(input)

	for _, bucket := range fallbackBuckets {
		if len(bucket.keywords) == 0 {
			return f.pick(bucket.replies)
		}
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return f.pick(bucket.replies)
			}
		}
	}
	// unreachable, the final bucket matches everything
	return fallbackBuckets[len(fallbackBuckets)-1].replies[0]
}

func (f *Fallback) pick(replies []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return replies[f.rng.Intn(len(replies))]
}
