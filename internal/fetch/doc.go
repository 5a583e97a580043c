// Package fetch retrieves page bodies politely and durably.
//
// The Fetcher is the only component that touches the network. It serves
// cached bodies without any delay, retries transient failures with
// exponential backoff, classifies errors as transient or permanent, and
// writes every successful network fetch through to the cache.
//
// Politeness is enforced per host by a HostLimiter: a token bucket
// spaces request starts while a completion floor guarantees a minimum
// interval between the end of one request and the start of the next.
// With a single worker this degenerates to the classic
// fetch-then-sleep loop; with many workers it stays correct.
package fetch
