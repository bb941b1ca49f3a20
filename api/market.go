package api

import (
	"context"
	"math"
	"strconv"

	"github.com/jrsteele09/securecrop-client/apiclient"
)

const defaultSearchRadiusKM = 10

// Market defines the market linkage search
type Market interface {
	// Search finds markets, buyers and agricultural stores within radiusKM of
	// at, nearest first. A radius of zero or less searches 10 km.
	Search(ctx context.Context, at Coordinates, radiusKM float64) ([]Place, error)
}

type marketClient struct {
	client *apiclient.Client
}

func NewMarketClient(client *apiclient.Client) Market {
	return &marketClient{client: client}
}

func (c *marketClient) Search(ctx context.Context, at Coordinates, radiusKM float64) ([]Place, error) {
	if err := validateCoordinates(at); err != nil {
		return nil, err
	}
	if radiusKM <= 0 {
		radiusKM = defaultSearchRadiusKM
	}

	query := positionQuery(&at)
	query.Set("radius", strconv.Itoa(int(math.Round(radiusKM*1000))))
	return getList[Place](ctx, c.client, "/market/search/all/", query)
}

// FilterPlaces returns the places of one type, keeping their order.
func FilterPlaces(places []Place, placeType PlaceType) []Place {
	filtered := make([]Place, 0, len(places))
	for _, p := range places {
		if p.Type == placeType {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
