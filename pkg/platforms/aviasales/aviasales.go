// Package aviasales fetches flight offers from the Aviasales search API.
package aviasales

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/whttp"
)

const (
	apiURL      = "https://lite.api.aviasales.ru/v1/flights"
	maxListings = 15
)

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return "Aviasales" }

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("depart_date", q.Date.Format("2006-01-02"))
	params.Set("passengers", strconv.Itoa(q.Passengers))

	res, err := whttp.Fetch(ctx, a.client, &whttp.Request{
		URL:     apiURL + "?" + params.Encode(),
		Headers: []whttp.Header{{Name: "Accept", Value: "application/json"}},
	})
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if !gjson.Valid(res.BodyString) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	var raws []listing.Raw
	for _, t := range gjson.Get(res.BodyString, "tickets").Array() {
		if len(raws) >= maxListings {
			break
		}
		price := t.Get("price.amount").String()
		if price == "" {
			continue
		}
		raws = append(raws, listing.Raw{
			Airline:      t.Get("airline.name").String(),
			FlightNumber: t.Get("flight_number").String(),
			Price:        price + " ₽",
			Time:         t.Get("duration").String(),
			Route:        t.Get("route").String(),
			URL:          t.Get("link").String(),
			Platform:     a.Name(),
		})
	}
	return raws, nil
}
