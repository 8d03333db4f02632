package digest

// Platform is one of the four content channels a digest entry can come from.
type Platform string

const (
	PlatformWeb        Platform = "web"
	PlatformVideo      Platform = "video"
	PlatformShortVideo Platform = "short_video"
	PlatformPhoto      Platform = "photo"
)

// Tool returns the tool name the generative model must use for this platform.
func (p Platform) Tool() string {
	switch p {
	case PlatformVideo:
		return "video_search"
	case PlatformShortVideo:
		return "short_video_search"
	case PlatformPhoto:
		return "photo_search"
	default:
		return "web_search"
	}
}

// PlatformFromPreference maps the onboarding preference labels to a platform.
func PlatformFromPreference(pref string) (Platform, bool) {
	switch pref {
	case "Research News":
		return PlatformWeb, true
	case "YouTube":
		return PlatformVideo, true
	case "TikTok":
		return PlatformShortVideo, true
	case "Instagram Reel":
		return PlatformPhoto, true
	}
	return "", false
}

// ToolCall is a structured, validated request to search one platform.
type ToolCall struct {
	Platform Platform
	Query    string
}

// Sentinel links standing in for a missing or failed result. The digest is
// always rendered in full; these mark the entries that could not be filled.
const (
	LinkNoResults  = "No results found"
	LinkFetchError = "Error fetching results"
	LinkNoCall     = "No call generated"
)

// Entry is one line of the final digest.
type Entry struct {
	Query string `json:"query"`
	Link  string `json:"link"`
}

// Digest is the final rendered output for one request.
type Digest struct {
	Text    string  `json:"text"`
	Results []Entry `json:"results"`
}
