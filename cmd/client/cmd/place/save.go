package place

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spot/internal/domain/place"
)

var (
	saveNote     string
	saveName     string
	saveAddress  string
	saveLat      float64
	saveLng      float64
	saveRating   float64
	savePrice    int
	saveCategory string
	saveCuisine  string
)

var SaveCmd = &cobra.Command{
	Use:   "save <google-place-id>",
	Short: "Save a place",
	Long: `Saves a place to the local list and uploads it when the server is
reachable. Saving the same place twice is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var cache *place.PlaceCache
		if saveName != "" {
			cache = &place.PlaceCache{
				GooglePlaceID: args[0],
				Name:          saveName,
				Address:       saveAddress,
				Lat:           saveLat,
				Lng:           saveLng,
				Rating:        saveRating,
				PriceLevel:    savePrice,
				Category:      saveCategory,
				Cuisine:       saveCuisine,
				LastRefreshed: time.Now().UTC(),
			}
		}

		saved, err := app.SavePlace(cmd.Context(), args[0], saveNote, cache)
		if errors.Is(err, place.ErrDuplicate) {
			return fmt.Errorf("you already saved this place")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Saved %s (%s)\n", displayName(saved), saved.ID)
		return nil
	},
}

func init() {
	SaveCmd.Flags().StringVar(&saveNote, "note", "", "note text")
	SaveCmd.Flags().StringVar(&saveName, "name", "", "place name")
	SaveCmd.Flags().StringVar(&saveAddress, "address", "", "place address")
	SaveCmd.Flags().Float64Var(&saveLat, "lat", 0, "latitude")
	SaveCmd.Flags().Float64Var(&saveLng, "lng", 0, "longitude")
	SaveCmd.Flags().Float64Var(&saveRating, "rating", 0, "rating")
	SaveCmd.Flags().IntVar(&savePrice, "price", 0, "price level")
	SaveCmd.Flags().StringVar(&saveCategory, "category", "", "place category")
	SaveCmd.Flags().StringVar(&saveCuisine, "cuisine", "", "cuisine")
}

func displayName(p *place.SavedPlace) string {
	if p.Cache != nil && p.Cache.Name != "" {
		return p.Cache.Name
	}
	return p.GooglePlaceID
}
