// Package robots evaluates robots.txt rules for crawled hosts.
//
// The Agent fetches each host's robots.txt at most once per cache TTL
// and answers Allowed checks from the parsed rules. Hosts without a
// robots.txt are fully allowed; a host answering with a server error is
// fully disallowed until the cache entry expires.
//
// Design decision: Transport failures fail open because:
//  1. An unreachable robots.txt usually means the whole host is down,
//     and the page fetch will fail on its own
//  2. Blocking a crawl on a missing policy file punishes the user for
//     the server's problem
//  3. Matches how established crawlers treat unreachable robots.txt
package robots
