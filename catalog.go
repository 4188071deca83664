package litquiz

// Collection is one book of the catalog with its chapters in reading order
type Collection struct {
	Key      string       `json:"key"`
	Name     string       `json:"name"`
	Chapters []ChapterRef `json:"chapters"`
}

const (
	firstFlight = "First Flight"
	footprints  = "Footprints Without Feet"
)

var catalog = []Collection{
	{
		Key:  "first_flight",
		Name: firstFlight,
		Chapters: []ChapterRef{
			prose("ff_p1", "A Letter to God"),
			prose("ff_p2", "Nelson Mandela: Long Walk to Freedom"),
			prose("ff_p3", "Two Stories about Flying"),
			prose("ff_p4", "From the Diary of Anne Frank"),
			prose("ff_p5", "Glimpses of India"),
			prose("ff_p6", "Mijbil the Otter"),
			prose("ff_p7", "Madam Rides the Bus"),
			prose("ff_p8", "The Sermon at Benares"),
			prose("ff_p9", "The Proposal"),
			poem("ff_po1", "Dust of Snow & Fire and Ice"),
			poem("ff_po2", "A Tiger in the Zoo"),
			poem("ff_po3", "How to Tell Wild Animals & The Ball Poem"),
			poem("ff_po4", "Amanda!"),
			poem("ff_po5", "Animals & The Trees"),
			poem("ff_po6", "Fog & The Tale of Custard the Dragon"),
			poem("ff_po7", "For Anne Gregory"),
		},
	},
	{
		Key:  "footprints",
		Name: footprints,
		Chapters: []ChapterRef{
			story("fp_1", "A Triumph of Surgery"),
			story("fp_2", "The Thief's Story"),
			story("fp_3", "The Midnight Visitor"),
			story("fp_4", "A Question of Trust"),
			story("fp_5", "Footprints Without Feet"),
			story("fp_6", "The Making of a Scientist"),
			story("fp_7", "The Necklace"),
			story("fp_8", "The Hack Driver"),
			story("fp_9", "Bholi"),
			story("fp_10", "The Book That Saved the Earth"),
		},
	},
}

var chapterIndex = buildChapterIndex()

func prose(id, name string) ChapterRef {
	return ChapterRef{ID: id, Name: name, Collection: firstFlight, Section: "prose", Category: CategoryNarrative}
}

func poem(id, name string) ChapterRef {
	return ChapterRef{ID: id, Name: name, Collection: firstFlight, Section: "poetry", Category: CategoryPoetry}
}

func story(id, name string) ChapterRef {
	return ChapterRef{ID: id, Name: name, Collection: footprints, Section: "story", Category: CategoryNarrative}
}

func buildChapterIndex() map[string]ChapterRef {
	index := make(map[string]ChapterRef)
	for _, c := range catalog {
		for _, ch := range c.Chapters {
			index[ch.ID] = ch
		}
	}
	return index
}

// ChapterInfo looks up a chapter by ID
func ChapterInfo(id string) (ChapterRef, bool) {
	ch, ok := chapterIndex[id]
	return ch, ok
}

// AllChapters returns every collection in display order. The result is a
// copy and may be modified by the caller.
func AllChapters() []Collection {
	out := make([]Collection, len(catalog))
	for i, c := range catalog {
		out[i] = Collection{
			Key:      c.Key,
			Name:     c.Name,
			Chapters: append([]ChapterRef(nil), c.Chapters...),
		}
	}
	return out
}
