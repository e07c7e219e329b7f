// Package sim provides the single-echelon inventory simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - config.go: Item and EnvironmentConfig (horizon, reorder point, lead time)
//   - environment.go: the period state machine (Reset, Step, Act, Simulate)
//   - scenario.go: YAML scenarios that assemble a ready Environment
//
// # Architecture
//
// The sim package owns the environment and its collaborators' wiring;
// implementations live in sub-packages:
//   - sim/eoq/: order quantity models (EOQ, production, backorders, stochastic)
//   - sim/dist/: named probability distributions (quantile and CDF)
//   - sim/demand/: demand generators (deterministic, normal, Poisson, negative binomial)
//   - sim/trace/: per-period records, summaries and CSV export
//   - sim/store/: SQLite persistence of evaluation runs
//   - sim/errs/: the shared error classes, re-exported here
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - eoq.OrderQuantityModel: order quantity and cost for a demand window
//   - eoq.ServiceLevelModel: reorder point and safety stock for a service level
//   - demand.Generator: one episode of demand drawn from a caller-supplied RNG
//
// Each Environment owns a PartitionedRNG, so episodes evaluated in parallel
// (see Evaluate) share no mutable state.
package sim
