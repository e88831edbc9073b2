package bot

import "fmt"

const messageFormat = `#### %s

#### Summary:

%s

------------------------------------------------------------
I am a bot that summarizes content of a URL-only submission!
`

// FormatMessage renders the fixed reply template: title line, summary
// section, disclosure footer.
func FormatMessage(title, summary string) string {
	return fmt.Sprintf(messageFormat, title, summary)
}
