package domain

import "strings"

// BookAlias maps a human-readable title or short code to the canonical
// storage folder under /books/<lang>/.
type BookAlias struct {
	Alias  string
	Folder string
}

// bookAliases is the ordered alias table. Order matters: the substring
// fallback in BookFolder takes the first match in table order, so short
// codes that are substrings of many titles sit after the full titles.
// Study-guide folders at the tail map to themselves.
var bookAliases = []BookAlias{
	{"Srimad-Bhagavatam", "sb"},
	{"Bhagavad-gita As It Is", "bg"},
	{"Sri Caitanya-caritamrta", "cc"},
	{"Nectar of Devotion", "nod"},
	{"Nectar of Instruction", "noi"},
	{"Teachings of Lord Caitanya", "tqk"},
	{"Sri Isopanisad", "iso"},
	{"Light of the Bhagavata", "lob"},
	{"Perfect Questions, Perfect Answers", "pop"},
	{"Path of Perfection", "pop"},
	{"Science of Self Realization", "sc"},
	{"Life Comes from Life", "lcfl"},
	{"Krishna Book", "kb"},
	{"Raja-Vidya", "rv"},
	{"Beyond Birth and Death", "bbd"},
	{"Civilization and Transcendence", "ct"},
	{"Krsna Consciousness The Matchless Gift", "mg"},
	{"Easy Journey to Other Planets", "ej"},
	{"On the Way to Krsna", "owk"},
	{"Perfection of Yoga", "poy"},
	{"Spiritual Yoga", "sy"},
	{"Transcendental Teachings of Prahlad Maharaja", "ttpm"},
	{"sb", "sb"},
	{"bg", "bg"},
	{"cc", "cc"},
	{"nod", "nod"},
	{"noi", "noi"},
	{"tqk", "tqk"},
	{"iso", "iso"},
	{"lob", "lob"},
	{"pop", "pop"},
	{"sc", "sc"},
	{"rv", "rv"},
	{"bbd", "bbd"},
	{"owk", "owk"},
	{"poy", "poy"},
	{"spl", "spl"},
	{"Uddhava-Gita", "Uddhava-Gita"},
	{"Bhakti-Sandarbha", "Bhakti-Sandarbha"},
	{"Comprehensive-Isopanisad-Notes", "Comprehensive-Isopanisad-Notes"},
	{"Sri-Bhakti-sandarbha-12", "Sri-Bhakti-sandarbha-12"},
	{"Sri-Bhakti-sandarbha-8", "Sri-Bhakti-sandarbha-8"},
	{"Bhakti-Shastri-Student-Handbook", "Bhakti-Shastri-Student-Handbook"},
	{"Iso", "Iso"},
	{"Sri-Bhakti-sandarbha-2", "Sri-Bhakti-sandarbha-2"},
	{"Bhakti-pravesa-Students-Handbook-2012", "Bhakti-pravesa-Students-Handbook-2012"},
	{"bhagvat-subodhini", "bhagvat-subodhini"},
	{"Sat-Sandarbha-Class", "Sat-Sandarbha-Class"},
	{"Bhagavata-Subodhini-1-2", "Bhagavata-Subodhini-1-2"},
	{"Bhakti-Ratnakara-Narahari-Dasa-I-pdf", "Bhakti-Ratnakara-Narahari-Dasa-I-pdf"},
	{"Tattva-Sandarbha-docx", "Tattva-Sandarbha-docx"},
	{"StudyIsopanisad-NOI", "StudyIsopanisad-NOI"},
	{"Complete-Study-Guide-for-Nectar-of-Devotion", "Complete-Study-Guide-for-Nectar-of-Devotion"},
	{"NOI-nectar-of-instructions-Notes-iskcon", "NOI-nectar-of-instructions-Notes-iskcon"},
	{"Bhagavata-Vidyalaya-Canto-1-2-3", "Bhagavata-Vidyalaya-Canto-1-2-3"},
	{"Bhagavata-Vidyalaya-Canto-7-8-9", "Bhagavata-Vidyalaya-Canto-7-8-9"},
	{"Gita-Subodhini-Enriching-the-Experience-of-Bhagavad-Gita-Study", "Gita-Subodhini-Enriching-the-Experience-of-Bhagavad-Gita-Study"},
	{"Caitanya-Subodhini-Gauranga-Darshan-Das-All-Overview-Charts-Unlocked", "Caitanya-Subodhini-Gauranga-Darshan-Das-All-Overview-Charts-Unlocked"},
	{"BHAGAVATA-SUBODHINI-4", "BHAGAVATA-SUBODHINI-4"},
	{"Subodhini-3", "Subodhini-3"},
	{"Upadesamrita-Subodhini-GDD", "Upadesamrita-Subodhini-GDD"},
	{"Bhagavata-Subodhini-5-6", "Bhagavata-Subodhini-5-6"},
	{"Bhagavata-Subodhini-Canto-7", "Bhagavata-Subodhini-Canto-7"},
}

// BookAliases returns the ordered alias table.
func BookAliases() []BookAlias {
	return bookAliases
}

// BookFolder resolves a book title or code to its canonical folder.
// Exact alias match wins; otherwise the first table entry where either
// string contains the other is taken. The substring fallback is
// deliberately permissive and ordered only by the table: overlapping
// titles resolve to whichever alias appears first.
func BookFolder(bookTitle string) (string, bool) {
	for _, a := range bookAliases {
		if a.Alias == bookTitle {
			return a.Folder, true
		}
	}
	for _, a := range bookAliases {
		if strings.Contains(bookTitle, a.Alias) || strings.Contains(a.Alias, bookTitle) {
			return a.Folder, true
		}
	}
	return "", false
}

// hasPathSeparator reports whether a chapter locator is an explicit path.
func hasPathSeparator(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// ChapterPath maps a book title plus chapter/verse locator to the canonical
// document path under /books/<lang>/.
//
// A chapter containing a path separator is an already-resolved relative
// path: it is normalized (backslash to slash) and placed under the language
// root as-is, bypassing alias resolution entirely. Otherwise the book folder
// is resolved through the alias table, the chapter is split on '.', '/' and
// '\' into path segments (defaulting to "1" when absent), the verse is
// appended as a further segment when present, and the path ends in
// index.html. Returns ErrBookNotFound when no folder resolves and no
// explicit path was given.
func ChapterPath(lang Language, bookTitle string, chapter, verse Locator) (string, error) {
	if hasPathSeparator(chapter.String()) {
		normalized := strings.ReplaceAll(chapter.String(), `\`, "/")
		return "/books/" + lang.String() + "/" + normalized, nil
	}

	folder, ok := BookFolder(bookTitle)
	if !ok {
		return "", ErrBookNotFound
	}

	segments := splitChapter(chapter.String())
	if len(segments) == 0 {
		segments = []string{"1"}
	}
	if !verse.IsZero() {
		segments = append(segments, verse.String())
	}

	return "/books/" + lang.String() + "/" + folder + "/" + strings.Join(segments, "/") + "/index.html", nil
}

// splitChapter breaks a chapter locator on '.', '/' and '\' into ordered
// segments, dropping blank pieces.
func splitChapter(chapter string) []string {
	parts := strings.FieldsFunc(chapter, func(r rune) bool {
		return r == '.' || r == '/' || r == '\\'
	})
	segments := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
