// Package steam fetches title metadata and achievement data from the Steam
// Web API and community endpoints, normalizing every provider's shape into
// the package's record types at the client boundary.
//
// Four adapters cover the HTTP providers:
//   - FetchStoreDetails: store appdetails (title name + header image)
//   - FetchXMLSupplement: community achievements XML (icons + descriptions)
//   - FetchSchema: GetSchemaForGame (the authoritative achievement set,
//     requires a Web API key)
//   - FetchGlobalPercentages: global unlock percentages
//
// A fifth adapter, FetchDonorAchievements, scrapes a public profile's
// per-title achievement page for (display name, description) pairs; it is
// the data source for recovering hidden-achievement descriptions.
//
// All adapters are best-effort: callers are expected to substitute an empty
// result on error and continue. Raw provider shapes never leak out of this
// package.
package steam
