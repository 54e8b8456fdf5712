package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/location"
)

// LocationOptions overrides the resolved location for one command.
type LocationOptions struct {
	Latitude  float64
	Longitude float64
}

func AddLocationArgs(cmd *cobra.Command, o *LocationOptions) {
	cmd.Flags().Float64Var(&o.Latitude, "lat", 0, "Latitude in degrees.")
	cmd.Flags().Float64Var(&o.Longitude, "lon", 0, "Longitude in degrees.")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

// Coordinates returns the override, or nil when neither flag was given.
func (o *LocationOptions) Coordinates(cmd *cobra.Command) (*location.Coordinates, error) {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lon") {
		return nil, nil
	}
	c := location.Coordinates{Latitude: o.Latitude, Longitude: o.Longitude}
	if !c.Valid() {
		return nil, errors.New("--lat must be within ±90 and --lon within ±180")
	}
	return &c, nil
}
