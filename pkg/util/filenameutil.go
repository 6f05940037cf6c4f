package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// thaiToEnglish maps Thai characters to rough Latin transliterations so that
// uploaded file names stay storage-key safe.
var thaiToEnglish = map[rune]string{
	'ก': "k", 'ข': "kh", 'ค': "kh", 'ฆ': "kh", 'ง': "ng",
	'จ': "ch", 'ฉ': "ch", 'ช': "ch", 'ซ': "s", 'ฌ': "ch",
	'ญ': "y", 'ฎ': "d", 'ฏ': "t", 'ฐ': "th", 'ฑ': "th",
	'ฒ': "th", 'ณ': "n", 'ด': "d", 'ต': "t", 'ถ': "th",
	'ท': "th", 'ธ': "th", 'น': "n", 'บ': "b", 'ป': "p",
	'ผ': "ph", 'ฝ': "f", 'พ': "ph", 'ฟ': "f", 'ภ': "ph",
	'ม': "m", 'ย': "y", 'ร': "r", 'ล': "l", 'ว': "w",
	'ศ': "s", 'ษ': "s", 'ส': "s", 'ห': "h", 'ฬ': "l",
	'อ': "", 'ฮ': "h",
	'ะ': "a", 'า': "a", 'ิ': "i", 'ี': "i", 'ึ': "ue", 'ื': "ue",
	'ุ': "u", 'ู': "u", 'เ': "e", 'แ': "ae", 'โ': "o", 'ใ': "ai", 'ไ': "ai",
	'่': "", '้': "", '๊': "", '๋': "", 'ั': "a", '็': "",
	'์': "", 'ํ': "", 'ๆ': "",
	' ': "-", '_': "-", '.': ".", '-': "-",
}

var (
	multiDash   = regexp.MustCompile(`-+`)
	edgeDash    = regexp.MustCompile(`^-+|-+$`)
	disallowed  = regexp.MustCompile(`[^a-z0-9\-_.]`)
	nowMillisFn = func() int64 { return time.Now().UnixMilli() }
)

// TransliterateFilename converts a Thai (or mixed) filename to a lowercase
// Latin storage-safe name and appends a millisecond timestamp to keep names
// unique. The extension is preserved in lowercase.
func TransliterateFilename(filename string) string {
	if filename == "" {
		return filename
	}

	ext := ""
	name := filename
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		ext = strings.ToLower(filename[idx+1:])
		name = filename[:idx]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if mapped, ok := thaiToEnglish[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	out := multiDash.ReplaceAllString(b.String(), "-")
	out = edgeDash.ReplaceAllString(out, "")
	out = disallowed.ReplaceAllString(out, "")

	if ext == "" {
		return fmt.Sprintf("%s-%d", out, nowMillisFn())
	}
	return fmt.Sprintf("%s-%d.%s", out, nowMillisFn(), ext)
}
