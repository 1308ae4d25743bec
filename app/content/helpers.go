package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
)

// ItemID generates a stable, deterministic id from the source id and the
// item URL, so repeated fetches of the same article collapse to one
// cache slot across runs.
func ItemID(sourceID, itemURL string) string {
	hash := sha256.Sum256([]byte(sourceID + "|" + itemURL))
	return sourceID + "-" + hex.EncodeToString(hash[:8])
}

// fallbackImages maps each category to a small fixed pool of stock
// images, so ranking and display never see a "no image" item.
var fallbackImages = map[Category][]string{
	CategoryTechnology: {
		"https://images.unsplash.com/photo-1518770660439-4636190af475?w=800",
		"https://images.unsplash.com/photo-1526374965328-7f61d4dc18c5?w=800",
		"https://images.unsplash.com/photo-1550751827-4bd374c3f58b?w=800",
	},
	CategoryBusiness: {
		"https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=800",
		"https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=800",
		"https://images.unsplash.com/photo-1444653614773-995cb1ef9efa?w=800",
	},
	CategoryDesign: {
		"https://images.unsplash.com/photo-1561070791-2526d30994b5?w=800",
		"https://images.unsplash.com/photo-1558655146-9f40138edfeb?w=800",
		"https://images.unsplash.com/photo-1586717791821-3f44a563fa4c?w=800",
	},
	CategoryScience: {
		"https://images.unsplash.com/photo-1532094349884-543bc11b234d?w=800",
		"https://images.unsplash.com/photo-1507413245164-6160d8298b31?w=800",
		"https://images.unsplash.com/photo-1564325724739-bae0bd08762c?w=800",
	},
	CategoryAI: {
		"https://images.unsplash.com/photo-1677442136019-21780ecad995?w=800",
		"https://images.unsplash.com/photo-1620712943543-bcc4688e7485?w=800",
		"https://images.unsplash.com/photo-1555255707-c07966088b7b?w=800",
	},
	CategoryNews: {
		"https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=800",
		"https://images.unsplash.com/photo-1495020689067-958852a7765e?w=800",
		"https://images.unsplash.com/photo-1585829365295-ab7cd400c167?w=800",
	},
}

// FallbackImage picks a deterministic stock image for the category by
// hashing the title, so the same article always gets the same image.
func FallbackImage(category Category, title string) string {
	pool, ok := fallbackImages[category]
	if !ok {
		pool = fallbackImages[CategoryNews]
	}

	h := fnv.New32a()
	h.Write([]byte(title))
	return pool[int(h.Sum32())%len(pool)]
}

// FixImageURL resolves protocol-relative and root-relative image URLs
// against the origin of the page they were extracted from.
func FixImageURL(imageURL, pageURL string) string {
	if imageURL == "" {
		return ""
	}

	if strings.HasPrefix(imageURL, "//") {
		return "https:" + imageURL
	}

	if strings.HasPrefix(imageURL, "/") {
		origin, err := url.Parse(pageURL)
		if err != nil || origin.Host == "" {
			return imageURL
		}
		return origin.Scheme + "://" + origin.Host + imageURL
	}

	return imageURL
}

// EstimateReadTime derives a human-readable read time from content
// length, assuming ~200 words per minute.
func EstimateReadTime(text string) string {
	words := len(strings.Fields(text))
	if words == 0 {
		return "1 min read"
	}

	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
