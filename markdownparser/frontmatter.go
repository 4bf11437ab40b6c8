package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// isFrontMatterDelimiter reports whether a line opens or closes front matter.
// Trailing blanks are allowed on both delimiters.
func isFrontMatterDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == "---"
}

// parseFrontMatter extracts YAML front matter from markdown content. The
// returned body starts on the closing delimiter line, and lines is the number
// of lines the block occupies, delimiters included (0 without front matter).
func parseFrontMatter(content string) (frontMatter map[string]any, body string, lines int, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	all := strings.Split(content, "\n")
	if !isFrontMatterDelimiter(all[0]) {
		return make(map[string]any), content, 0, nil
	}

	end := -1

	for i := 1; i < len(all); i++ {
		if isFrontMatterDelimiter(all[i]) {
			end = i
			break
		}
	}

	if end == -1 {
		return nil, "", 0, ErrInvalidFrontMatter
	}

	err = yaml.Unmarshal([]byte(strings.Join(all[1:end], "\n")), &frontMatter)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, "\n" + strings.Join(all[end+1:], "\n"), end + 1, nil
}
