/*
Package dsl provides a fluent builder for machine definitions, as an
alternative to struct literals and YAML files:

	def := dsl.New("light").Initial("green").
		State("green").On("TIMER", "yellow").Done().
		State("yellow").On("TIMER", "red").Done().
		State("red").Initial("walk").On("TIMER", "green").
			Child("walk").On("PED_COUNTDOWN", "wait").Forbid("TIMER").Done().
			Child("wait").On("PED_COUNTDOWN", "stop").Forbid("TIMER").Done().
			Child("stop").Done().
		Done().
		Build()

Declaration order of states and events is preserved: it matters for path
search determinism.
*/
package dsl
