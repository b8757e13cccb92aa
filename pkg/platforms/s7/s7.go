// Package s7 scrapes flight offers from the S7 Airlines booking search.
// Unlike the metasearch platforms it only ever quotes its own flights.
package s7

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
	searchURL   = "https://www.s7.ru/booking/search"
	bookingURL  = "https://www.s7.ru/booking"
	airline     = "S7 Airlines"
	maxListings = 15
)

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return airline }

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	params := url.Values{}
	params.Set("departureCity", q.Origin)
	params.Set("arrivalCity", q.Destination)
	params.Set("departureDate", q.Date.Format("2006-01-02"))

	res, err := whttp.Fetch(ctx, a.client, &whttp.Request{URL: searchURL + "?" + params.Encode()})
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
	doc.Find(".flight, .ticket, .offer").Each(func(_ int, card *goquery.Selection) {
		if len(raws) >= maxListings {
			return
		}
		price := platforms.FirstText(card, ".price, .cost")
		if price == "" {
			return
		}
		raws = append(raws, listing.Raw{
			Airline:      airline,
			Price:        price,
			Time:         platforms.FirstText(card, ".time, .duration"),
			Route:        q.Origin + " - " + q.Destination,
			FlightNumber: platforms.FirstText(card, ".flight-number"),
			URL:          bookingURL,
			Platform:     a.Name(),
		})
	})
	return raws, nil
}
