package ocr

import (
	"regexp"
	"strings"
)

var (
	headerPattern     = regexp.MustCompile(`(?i)\b(ingredients|ingrédients|inci|composition)\s*[:：]`)
	terminatorPattern = regexp.MustCompile(`(?i)\b(directions|how to use|warnings?|caution|precautions)\s*[:：]|\b(distributed|manufactured)\s+(for|by)\b`)

	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(may contain|peut contenir)\s*[:：]?`),
		regexp.MustCompile(`\[?\+/-\]?`),
		regexp.MustCompile(`(?i)\bfor external use only\b`),
		regexp.MustCompile(`(?i)\bkeep out of (the )?reach of children\b`),
		regexp.MustCompile(`(?i)\bdermatologically tested\b`),
		regexp.MustCompile(`(?i)\b(paraben|cruelty|fragrance)[- ]free\b`),
		regexp.MustCompile(`(?i)\bmade in [a-z ]+`),
		regexp.MustCompile(`(?i)\bnet\s+(wt|weight|vol)\.?[^,\n]*`),
	}

	urlPattern         = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	parenPattern       = regexp.MustCompile(`\([^()]*\)|\[[^\[\]]*\]`)
	percentPattern     = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%`)
	longNumberPattern  = regexp.MustCompile(`\b\d{6,}\b`)
	bulletPattern      = regexp.MustCompile(`[•·▪●■◦*]`)
	separatorPattern   = regexp.MustCompile(`[;\n\r，、；|]`)
	numericPrefix      = regexp.MustCompile(`^\d+\s*[.)\-:]\s*`)
	edgePunctuation    = ".:-– "
)

// CleanText 將辨識出的標籤文字整理成以逗號分隔的成分表
func CleanText(raw string) string {
	text := raw
	if loc := headerPattern.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	if loc := terminatorPattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	for _, p := range boilerplatePatterns {
		text = p.ReplaceAllString(text, " ")
	}
	text = urlPattern.ReplaceAllString(text, " ")
	// 巢狀括號由內往外清
	for parenPattern.MatchString(text) {
		text = parenPattern.ReplaceAllString(text, " ")
	}
	text = percentPattern.ReplaceAllString(text, " ")
	text = longNumberPattern.ReplaceAllString(text, " ")
	text = bulletPattern.ReplaceAllString(text, " ")
	text = separatorPattern.ReplaceAllString(text, ",")

	var items []string
	for _, part := range strings.Split(text, ",") {
		item := strings.Join(strings.Fields(part), " ")
		item = numericPrefix.ReplaceAllString(item, "")
		item = strings.Trim(item, edgePunctuation)
		if item != "" {
			items = append(items, item)
		}
	}
	return strings.Join(items, ", ")
}
