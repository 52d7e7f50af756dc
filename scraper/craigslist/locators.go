package craigslist

// PageShape distinguishes the two structural eras of the site's markup. Older
// regions still serve the legacy layout; most now serve the rewritten one.
type PageShape int

const (
	ShapeLegacy PageShape = iota
	ShapeCurrent
)

func (p PageShape) String() string {
	if p == ShapeCurrent {
		return "current"
	}
	return "legacy"
}

// Locator is an XPath per page shape for one element of interest. The
// expressions are an external contract owned by the site, not by this code.
type Locator struct {
	Legacy  string
	Current string
}

// For returns the expression matching the detected shape.
func (l Locator) For(shape PageShape) string {
	if shape == ShapeCurrent {
		return l.Current
	}
	return l.Legacy
}

// shapeMarker is probed once per page: present on current-era pages only.
const shapeMarker = `//*[contains(@class,"cl-app-container")]`

// Detail-page field locators.
var (
	locListingID = Locator{
		Legacy:  `/html/body/section/section/section/div[2]/p[1]`,
		Current: `//p[@class="postinginfo" and contains(., "post id")]`,
	}
	locPrice = Locator{
		Legacy:  `//span[@class="price"]`,
		Current: `//span[@class="price"]`,
	}
	locCity = Locator{
		Legacy:  `/html/body/section/section/h1/span/span[4]`,
		Current: `//span[@class="postingtitletext"]/span[@class="price"]/following-sibling::span`,
	}
	// bedrooms and bathrooms share one bubble, e.g. "3BR / 2Ba"
	locBedBath = Locator{
		Legacy:  `//span[@class="shared-line-bubble"]`,
		Current: `//span[@class="attr important"][1]`,
	}
	locHousing = Locator{
		Legacy:  `//span[@class="housing"]`,
		Current: `//span[@class="attr important"][2]`,
	}
	locDescription = Locator{
		Legacy:  `//*[@id="postingbody"]`,
		Current: `//*[@id="postingbody"]`,
	}
	// the attribute group is always the last p.attrgroup on the page
	locAttrGroup = Locator{
		Legacy:  `//p[@class="attrgroup"][last()]`,
		Current: `//div[@class="attrgroup"][last()]`,
	}
	locDatePosted = Locator{
		Legacy:  `//time[@class="date timeago"]`,
		Current: `//time[@class="date timeago"]`,
	}
)

// Results-page locators. Both era variants are always read so a crawl spanning
// mixed-era caches never drops links.
var (
	locResultLinks = Locator{
		Legacy:  `//a[contains(@class,"result-title")]`,
		Current: `//li[contains(@class,"cl-static-search-result")]//a | //ol[contains(@class,"cl-search-result")]//a[contains(@class,"posting-title")]`,
	}
	locNextPage = Locator{
		Legacy:  `//a[contains(@class,"button next")]`,
		Current: `//button[contains(@class,"cl-next-page")]`,
	}
)

// searchReadyMarker signals the results page finished rendering. The shape is
// unknown before the first load, so both era forms are unioned.
const searchReadyMarker = `//*[@id="searchform"] | //*[@id="search-toolbars-1"]`
