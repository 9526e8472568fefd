package models

// Mood is one of the fixed set of mood categories. The set is closed: the UI
// and the database CHECK constraint both reject anything else.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodSad         Mood = "sad"
	MoodAnxious     Mood = "anxious"
	MoodCalm        Mood = "calm"
	MoodExcited     Mood = "excited"
	MoodAngry       Mood = "angry"
	MoodTired       Mood = "tired"
	MoodEnergetic   Mood = "energetic"
	MoodStressed    Mood = "stressed"
	MoodRelaxed     Mood = "relaxed"
	MoodFrustrated  Mood = "frustrated"
	MoodContent     Mood = "content"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodHopeful     Mood = "hopeful"
	MoodLonely      Mood = "lonely"
	MoodGrateful    Mood = "grateful"
)

// MoodInfo carries the display label and icon glyph for a category.
type MoodInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// MoodOption pairs a category with its display metadata.
type MoodOption struct {
	Mood Mood `json:"mood"`
	MoodInfo
}

// Moods lists every category in display order with its label and glyph.
var Moods = []MoodOption{
	{MoodHappy, MoodInfo{"Happy", "😊"}},
	{MoodSad, MoodInfo{"Sad", "😢"}},
	{MoodAnxious, MoodInfo{"Anxious", "😰"}},
	{MoodCalm, MoodInfo{"Calm", "😌"}},
	{MoodExcited, MoodInfo{"Excited", "🤩"}},
	{MoodAngry, MoodInfo{"Angry", "😠"}},
	{MoodTired, MoodInfo{"Tired", "😴"}},
	{MoodEnergetic, MoodInfo{"Energetic", "⚡"}},
	{MoodStressed, MoodInfo{"Stressed", "😫"}},
	{MoodRelaxed, MoodInfo{"Relaxed", "🧘"}},
	{MoodFrustrated, MoodInfo{"Frustrated", "😤"}},
	{MoodContent, MoodInfo{"Content", "🙂"}},
	{MoodOverwhelmed, MoodInfo{"Overwhelmed", "🫠"}},
	{MoodHopeful, MoodInfo{"Hopeful", "🌱"}},
	{MoodLonely, MoodInfo{"Lonely", "🫥"}},
	{MoodGrateful, MoodInfo{"Grateful", "🙏"}},
}

var moodSet = func() map[Mood]MoodInfo {
	m := make(map[Mood]MoodInfo, len(Moods))
	for _, e := range Moods {
		m[e.Mood] = e.MoodInfo
	}
	return m
}()

// ValidMood reports whether m is one of the known categories.
func ValidMood(m Mood) bool {
	_, ok := moodSet[m]
	return ok
}

// SuggestedTriggers is shown to the user when recording an entry. Entries may
// carry triggers outside this list.
var SuggestedTriggers = []string{
	"work", "family", "relationships", "health", "sleep",
	"exercise", "weather", "finances", "social media", "news",
}
