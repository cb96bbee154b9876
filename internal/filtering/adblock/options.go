package adblock

import "strings"

// FilterOption classifies a request by the kind of resource it loads.
type FilterOption uint32

const (
	OptionNone FilterOption = 0

	OptionScript FilterOption = 1 << iota
	OptionImage
	OptionStylesheet
	OptionObject
	OptionXMLHTTPRequest
	OptionSubdocument
	OptionDocument
	OptionFont
	OptionMedia
	OptionWebsocket
	OptionPing
	OptionOther
)

var optionNames = map[string]FilterOption{
	"script":         OptionScript,
	"image":          OptionImage,
	"stylesheet":     OptionStylesheet,
	"object":         OptionObject,
	"xmlhttprequest": OptionXMLHTTPRequest,
	"xhr":            OptionXMLHTTPRequest,
	"subdocument":    OptionSubdocument,
	"document":       OptionDocument,
	"font":           OptionFont,
	"media":          OptionMedia,
	"websocket":      OptionWebsocket,
	"ping":           OptionPing,
	"other":          OptionOther,
}

// ParseOption maps an option name ("script", "xhr", ...) to its flag.
func ParseOption(name string) (FilterOption, bool) {
	opt, ok := optionNames[strings.ToLower(strings.TrimSpace(name))]
	return opt, ok
}

func (o FilterOption) String() string {
	if o == OptionNone {
		return "none"
	}
	var names []string
	for _, name := range []string{"script", "image", "stylesheet", "object", "xmlhttprequest",
		"subdocument", "document", "font", "media", "websocket", "ping", "other"} {
		if o&optionNames[name] != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
