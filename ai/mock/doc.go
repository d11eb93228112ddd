// Package mock provides test doubles for the ai interfaces.
// Behavior can be injected through function fields; the defaults are
// deterministic so fixtures stay reproducible.
package mock
