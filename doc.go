// Package investor settles trades of named instruments for accounts that
// hold both a money balance and a portfolio of holdings.
//
// The building blocks are:
//   - Quotes: a QuoteSource fetches a live unit price for a symbol, the
//     AlphaVantage implementation talks to the GLOBAL_QUOTE endpoint.
//   - Holdings: a ShareLedger applies buy and sell adjustments on top of a
//     durable HoldingStore (see the yamlstore and pebblestore packages).
//   - Money: a Bank withdraws and deposits against an account balance. It
//     is owned by the host, the sqlite package ships a standalone one.
//   - Settlement: the Engine prices a trade, then moves money and shares
//     together, compensating when only one side went through.
//   - Commands: a Dispatcher maps "invest ..." requests to the Engine and
//     renders the replies.
//
// The inv command-line tool and the api package expose the Dispatcher.
package investor
