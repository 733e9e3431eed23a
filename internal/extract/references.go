package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/textnorm"
)

var referenceLineRe = regexp.MustCompile(`(^|\n)\s*(\d+)\s*[.．]\s*([^\n]+)`)

// Reference list headings, most specific first.
var referenceListHeadings = []string{"引用文献等一覧", "引用文献一覧"}

// ReferenceList collects "N．title" lines from the reference list section.
// Without a recognizable heading the whole text is scanned.
func ReferenceList(text string) model.ReferenceMap {
	t := textnorm.Normalize(text)
	for _, h := range referenceListHeadings {
		if idx := strings.Index(t, h); idx >= 0 {
			t = t[idx:]
			break
		}
	}

	out := model.ReferenceMap{}
	for _, m := range referenceLineRe.FindAllStringSubmatch(t, -1) {
		no, err := strconv.Atoi(m[2])
		if err != nil || no <= 0 {
			continue
		}
		if name := strings.TrimSpace(m[3]); name != "" {
			out[no] = name
		}
	}
	return out
}
