package leaching

import "Furnace/internal/calc/balance"

// Validate checks the preconditions of a leaching run. Missing optional
// numbers count as zero; values that do not parse are reported as
// *balance.FieldError.
func Validate(in Input) error {
	var c balance.Checks

	concentrate, err := in.ConcentrateMass.Optional("concentrate_mass", 0)
	if err != nil {
		return err
	}
	c.Require(concentrate > 0, "Concentrate mass must be greater than 0")

	for _, e := range Elements {
		initial, err := in.Initial(e).Optional("initial_"+string(e), 0)
		if err != nil {
			return err
		}
		c.Require(initial >= 0 && initial <= 100, "%s content must be between 0 and 100%%", upper(e))
	}
	for _, e := range Elements {
		cake, err := in.Cake(e).Optional("cake_"+string(e), 0)
		if err != nil {
			return err
		}
		c.Require(cake >= 0 && cake <= 100, "%s content in cake must be between 0 and 100%%", upper(e))
	}

	temperature, err := in.Temperature.Optional("temperature", 0)
	if err != nil {
		return err
	}
	c.Require(temperature >= 0 && temperature <= 200, "Temperature must be between 0 and 200°C")

	duration, err := in.Duration.Optional("duration", 0)
	if err != nil {
		return err
	}
	c.Require(duration > 0, "Duration must be greater than 0")

	cakeMass, err := in.CakeMass.Optional("cake_mass", 0)
	if err != nil {
		return err
	}
	c.Require(cakeMass > 0, "Cake mass must be greater than 0")

	volume, err := in.SolutionVolume.Optional("solution_volume", 0)
	if err != nil {
		return err
	}
	c.Require(volume > 0, "Solution volume must be greater than 0")

	return c.Err()
}
