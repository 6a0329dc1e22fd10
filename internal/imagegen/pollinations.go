package imagegen

import (
	"net/url"
	"strconv"
)

const (
	pollinationsBase  = "https://image.pollinations.ai/prompt/"
	pollinationsModel = "flux"
)

// BuildPollinationsURL encodes a text-to-image request as a directly
// loadable GET URL. The seed makes a given prompt reproducible while
// still varying between invocations; no fetch or validation happens
// here, the consuming UI lazy-loads the URL as an image.
func BuildPollinationsURL(prompt string, width, height int, seed int64) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("seed", strconv.FormatInt(seed, 10))
	q.Set("model", pollinationsModel)
	q.Set("nologo", "true")
	return pollinationsBase + url.PathEscape(prompt) + "?" + q.Encode()
}
