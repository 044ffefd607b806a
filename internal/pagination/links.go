package pagination

import (
	"net/url"
	"strconv"
)

// Link is a navigation descriptor embedded in list responses so clients can
// traverse pages without constructing URLs themselves.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Relation tags for page navigation links.
const (
	RelSelf     = "self"
	RelNext     = "next"
	RelPrevious = "previous"
)

// AttachLinks builds self/next/previous links from the request URL,
// preserving every filter parameter. A nil URL leaves the links empty;
// link construction never fails the request.
func (pg *Page[T]) AttachLinks(requestURL *url.URL) {
	if requestURL == nil {
		return
	}

	pg.Links = append(pg.Links, Link{
		Href:   pageURL(requestURL, pg.PageNumber, pg.PageSize),
		Rel:    RelSelf,
		Method: "GET",
	})
	if pg.HasNext {
		pg.Links = append(pg.Links, Link{
			Href:   pageURL(requestURL, pg.PageNumber+1, pg.PageSize),
			Rel:    RelNext,
			Method: "GET",
		})
	}
	if pg.HasPrevious {
		pg.Links = append(pg.Links, Link{
			Href:   pageURL(requestURL, pg.PageNumber-1, pg.PageSize),
			Rel:    RelPrevious,
			Method: "GET",
		})
	}
}

func pageURL(base *url.URL, number, size int) string {
	u := *base
	q := u.Query()
	q.Set("pageNumber", strconv.Itoa(number))
	q.Set("pageSize", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}
