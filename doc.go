// Package flowfinance keeps the personal finances of a single household: a
// ledger of income and expense transactions in HUF, the balances of a fixed
// set of accounts, monthly recurring templates, budget goals and a Solana
// holding valued at a live price.
//
// The App is the only entry point to change the state. Each operation is
// applied in memory and then saved to a key value store.Storage, so that the
// state survives restarts:
//
//   - Ledger: transactions and recurring templates, looked up by identifier.
//   - Balances: the running balance of each Account, adjusted by every
//     transaction added or deleted, and directly corrected with SetBalance.
//   - Scheduler: posts the recurring templates due today, at most once per day.
//   - Reports: monthly flows, category totals and goal progress, computed from
//     a State snapshot.
//   - Backup: a JSON export of the whole state, and its validated import.
//
// The flow command line tool in package cmd is built on top of it.
package flowfinance
