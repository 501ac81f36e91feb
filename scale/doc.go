// Package scale reconstructs NI scaling chains from channel properties and
// applies them to decoded samples.
//
// Channels written with scaling enabled carry NI_Scale[i]_* properties
// describing a list of transformations; the last one produces the channel's
// final engineering values. Each scale reads either the channel's raw data
// or an earlier scale's output, selected by its _Input_Source property.
//
// Linear, Polynomial and Table scales are implemented. A channel whose
// NI_Scaling_Status property reads "scaled" already stores final values, so
// FromProperties reports no chain for it.
package scale
