package sorption

import "Furnace/internal/calc/balance"

func (c Calculator) Validate(in Input) error {
	var chk balance.Checks

	volume, err := in.SolutionVolume.Optional("solution_volume", 0)
	if err != nil {
		return err
	}
	chk.Require(volume > 0, "Solution volume must be greater than 0")

	initial, err := in.InitialMoConcentration.Optional("initial_mo_concentration", 0)
	if err != nil {
		return err
	}
	final, err := in.FinalMoConcentration.Optional("final_mo_concentration", 0)
	if err != nil {
		return err
	}
	chk.Require(initial > 0, "Initial Mo concentration must be greater than 0")
	chk.Require(final >= 0, "Final Mo concentration cannot be negative")
	chk.Require(final <= initial, "Final concentration cannot exceed the initial concentration")

	mass, err := in.AnioniteMass.Optional("anionite_mass", 0)
	if err != nil {
		return err
	}
	chk.Require(mass > 0, "Anionite mass must be greater than 0")

	temperature, err := in.Temperature.Optional("temperature", c.Constants.DefaultTemperature)
	if err != nil {
		return err
	}
	chk.Require(temperature >= 0 && temperature <= 100, "Temperature must be between 0 and 100°C")

	duration, err := in.Duration.Optional("duration", 0)
	if err != nil {
		return err
	}
	chk.Require(duration > 0, "Duration must be greater than 0")

	return chk.Err()
}
