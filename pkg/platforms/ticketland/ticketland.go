// Package ticketland scrapes event listings from Ticketland.ru.
package ticketland

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/whttp"
)

const (
	baseURL     = "https://www.ticketland.ru/"
	searchURL   = "https://www.ticketland.ru/search/?q="
	maxListings = 20
)

// Ticketland mixes several card layouts on one page, so every known
// variant is queried.
const cardSelectors = ".event-item, .concert-item, .show-item, .playbill-item, [class*=\"event\"], .item"

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return "Ticketland" }

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	pageURL := baseURL
	if q.SearchTerm != "" {
		pageURL = searchURL + url.QueryEscape(q.SearchTerm)
	}

	res, err := whttp.Fetch(ctx, a.client, &whttp.Request{URL: pageURL})
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var raws []listing.Raw
	seen := make(map[string]bool)
	doc.Find(cardSelectors).Each(func(_ int, card *goquery.Selection) {
		if len(raws) >= maxListings {
			return
		}
		title := platforms.FirstText(card, "h3, h4, .title, .name, [class*=\"title\"]")
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		raws = append(raws, listing.Raw{
			Title:    title,
			Price:    platforms.FirstText(card, ".price, .cost, .ticket-price, [class*=\"price\"]"),
			Date:     platforms.FirstText(card, ".date, .event-date, [class*=\"date\"]"),
			Venue:    platforms.FirstText(card, ".venue, .place, .location, [class*=\"venue\"]"),
			URL:      platforms.FirstHref(card, strings.TrimSuffix(baseURL, "/")),
			Platform: a.Name(),
		})
	})
	return raws, nil
}
