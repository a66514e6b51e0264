package plan

// canon maps book names to their testament tag, including the deuterocanonical
// and pseudepigraphal books that appear in the apocrypha plan.
var canon = map[string]Testament{}

func init() {
	for _, b := range []string{
		"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy", "Joshua", "Judges", "Ruth",
		"1 Samuel", "2 Samuel", "1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
		"Nehemiah", "Esther", "Job", "Psalms", "Proverbs", "Ecclesiastes", "Song of Solomon",
		"Isaiah", "Jeremiah", "Lamentations", "Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
		"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk", "Zephaniah", "Haggai", "Zechariah",
		"Malachi",
	} {
		canon[b] = OldTestament
	}
	for _, b := range []string{
		"Matthew", "Mark", "Luke", "John", "Acts", "Romans", "1 Corinthians", "2 Corinthians",
		"Galatians", "Ephesians", "Philippians", "Colossians", "1 Thessalonians",
		"2 Thessalonians", "1 Timothy", "2 Timothy", "Titus", "Philemon", "Hebrews", "James",
		"1 Peter", "2 Peter", "1 John", "2 John", "3 John", "Jude", "Revelation",
	} {
		canon[b] = NewTestament
	}
	for _, b := range []string{
		"Tobit", "Judith", "Additions to Esther", "Wisdom of Solomon", "Sirach", "Baruch",
		"Letter of Jeremiah", "Prayer of Azariah", "Susanna", "Bel and the Dragon",
		"1 Maccabees", "2 Maccabees", "3 Maccabees", "4 Maccabees", "1 Esdras", "2 Esdras",
		"Prayer of Manasseh", "Psalm 151", "1 Enoch", "2 Enoch", "Jubilees",
		"Testaments of the Twelve Patriarchs", "Psalms of Solomon",
	} {
		canon[b] = Apocryphal
	}
	// Common alternate names
	canon["Song of Songs"] = OldTestament
	canon["Psalm"] = OldTestament
	canon["Ecclesiasticus"] = Apocryphal
}

// TestamentOf returns the testament tag for a known book name.
func TestamentOf(book string) (Testament, bool) {
	t, ok := canon[book]
	return t, ok
}
