// Package router enumerates multi-hop paths across the token-adjacency
// graph built from every pair the pool manager knows about, and picks the
// best path by simulated output.
package router

import (
	"github.com/haardikk21/enshrined-dex/internal/book"
	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/config"
)

// Hop is a single edge in a Route: trading pair plus the direction
// (token_in -> token_out) this hop trades.
type Hop struct {
	Pair     common.Pair
	TokenIn  common.TokenId
	TokenOut common.TokenId
}

// Route is an ordered sequence of hops converting TokenIn to TokenOut.
type Route struct {
	Hops []Hop
}

// Len returns the number of hops.
func (r Route) Len() int { return len(r.Hops) }

// IsEmpty reports whether the route has no hops.
func (r Route) IsEmpty() bool { return len(r.Hops) == 0 }

// TokenIn returns the route's starting token, if any.
func (r Route) TokenIn() (common.TokenId, bool) {
	if len(r.Hops) == 0 {
		return common.TokenId{}, false
	}
	return r.Hops[0].TokenIn, true
}

// TokenOut returns the route's ending token, if any.
func (r Route) TokenOut() (common.TokenId, bool) {
	if len(r.Hops) == 0 {
		return common.TokenId{}, false
	}
	return r.Hops[len(r.Hops)-1].TokenOut, true
}

// Router holds the undirected token-adjacency graph and the canonical
// Pair backing each edge.
type Router struct {
	graph map[common.TokenId]map[common.TokenId]struct{}
	pairs map[[2]common.TokenId]common.Pair
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		graph: make(map[common.TokenId]map[common.TokenId]struct{}),
		pairs: make(map[[2]common.TokenId]common.Pair),
	}
}

// AddPair wires an undirected edge between pair's two tokens and stores
// the canonical Pair under both directions.
func (r *Router) AddPair(pair common.Pair) {
	r.addEdge(pair.Base, pair.Quote)
	r.addEdge(pair.Quote, pair.Base)

	r.pairs[[2]common.TokenId{pair.Base, pair.Quote}] = pair
	r.pairs[[2]common.TokenId{pair.Quote, pair.Base}] = pair
}

func (r *Router) addEdge(from, to common.TokenId) {
	if r.graph[from] == nil {
		r.graph[from] = make(map[common.TokenId]struct{})
	}
	r.graph[from][to] = struct{}{}
}

// RemovePair reverses AddPair.
func (r *Router) RemovePair(pair common.Pair) {
	if neighbors, ok := r.graph[pair.Base]; ok {
		delete(neighbors, pair.Quote)
	}
	if neighbors, ok := r.graph[pair.Quote]; ok {
		delete(neighbors, pair.Base)
	}
	delete(r.pairs, [2]common.TokenId{pair.Base, pair.Quote})
	delete(r.pairs, [2]common.TokenId{pair.Quote, pair.Base})
}

// FindRoutes enumerates all simple paths of length <= maxHops edges from
// tokenIn to tokenOut via breadth-first search, rejecting any hop whose
// PairId has no entry in books. Routes are returned shortest-first; ties
// are left in enumeration order.
func (r *Router) FindRoutes(
	tokenIn, tokenOut common.TokenId,
	maxHops int,
	books map[common.PairId]*book.OrderBook,
) []Route {
	var routes []Route

	type state struct {
		current common.TokenId
		path    []common.TokenId
	}

	queue := []state{{current: tokenIn, path: []common.TokenId{tokenIn}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if len(cur.path) > maxHops+1 {
			continue
		}

		if cur.current == tokenOut && len(cur.path) > 1 {
			if route, ok := r.pathToRoute(cur.path, books); ok {
				routes = append(routes, route)
			}
			continue
		}

		for neighbor := range r.graph[cur.current] {
			if containsToken(cur.path, neighbor) {
				continue // avoid cycles
			}
			newPath := make([]common.TokenId, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = neighbor
			queue = append(queue, state{current: neighbor, path: newPath})
		}
	}

	sortByHops(routes)
	return routes
}

func containsToken(path []common.TokenId, token common.TokenId) bool {
	for _, t := range path {
		if t == token {
			return true
		}
	}
	return false
}

// sortByHops is a stable insertion sort on hop count: the number of
// routes explored for any realistic max_routing_hops is small enough that
// this is simpler than pulling in sort.Slice with a closure, and it
// preserves enumeration order among ties as the spec requires.
func sortByHops(routes []Route) {
	for i := 1; i < len(routes); i++ {
		j := i
		for j > 0 && routes[j].Len() < routes[j-1].Len() {
			routes[j], routes[j-1] = routes[j-1], routes[j]
			j--
		}
	}
}

func (r *Router) pathToRoute(path []common.TokenId, books map[common.PairId]*book.OrderBook) (Route, bool) {
	if len(path) < 2 {
		return Route{}, false
	}

	hops := make([]Hop, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		tokenIn, tokenOut := path[i], path[i+1]

		pair, ok := r.pairs[[2]common.TokenId{tokenIn, tokenOut}]
		if !ok {
			return Route{}, false
		}
		if _, ok := books[pair.Id()]; !ok {
			return Route{}, false
		}

		hops = append(hops, Hop{Pair: pair, TokenIn: tokenIn, TokenOut: tokenOut})
	}

	return Route{Hops: hops}, true
}

// FindBestRoute enumerates routes and simulates each end-to-end, returning
// the one with the highest output and that route's accumulated fee
// (summed across every hop, each in that hop's output unit).
func (r *Router) FindBestRoute(
	tokenIn, tokenOut common.TokenId,
	amountIn common.Amount,
	maxHops int,
	books map[common.PairId]*book.OrderBook,
	cfg config.DexConfig,
) (Route, common.Amount, common.Amount, bool) {
	routes := r.FindRoutes(tokenIn, tokenOut, maxHops, books)

	var best Route
	var bestOut common.Amount
	var bestFee common.Amount
	found := false

	for _, route := range routes {
		out, fee, ok := r.SimulateRoute(route, amountIn, books, cfg)
		if !ok {
			continue
		}
		if !found || out.Cmp(&bestOut) > 0 {
			best, bestOut, bestFee, found = route, out, fee, true
		}
	}

	return best, bestOut, bestFee, found
}

// SimulateRoute runs amountIn through each hop's simulation primitive in
// turn, feeding each hop's output into the next hop's input, and
// accumulates the fee charged at each hop (reconstructed from that hop's
// post-fee output, in that hop's output unit) into a running total.
func (r *Router) SimulateRoute(
	route Route,
	amountIn common.Amount,
	books map[common.PairId]*book.OrderBook,
	cfg config.DexConfig,
) (common.Amount, common.Amount, bool) {
	current := amountIn
	totalFee := common.ZeroAmount()

	for _, hop := range route.Hops {
		ob, ok := books[hop.Pair.Id()]
		if !ok {
			return common.ZeroAmount(), common.ZeroAmount(), false
		}

		var out common.Amount
		var simOk bool
		if ob.Pair().Base == hop.TokenIn {
			out, _, simOk = ob.SimulateMarketSell(current, cfg)
		} else {
			out, _, simOk = ob.SimulateMarketBuy(current, cfg)
		}
		if !simOk {
			return common.ZeroAmount(), common.ZeroAmount(), false
		}
		totalFee = common.SaturatingAdd(totalFee, cfg.FeeFromPostFeeAmount(out))
		current = out
	}

	return current, totalFee, true
}

// AllTokens returns every token with at least one edge in the graph.
func (r *Router) AllTokens() []common.TokenId {
	tokens := make([]common.TokenId, 0, len(r.graph))
	for t := range r.graph {
		tokens = append(tokens, t)
	}
	return tokens
}

// ReachableTokens returns every token reachable from `from` (excluding
// itself) via breadth-first search.
func (r *Router) ReachableTokens(from common.TokenId) map[common.TokenId]struct{} {
	visited := make(map[common.TokenId]struct{})
	queue := []common.TokenId{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}

		for neighbor := range r.graph[cur] {
			if _, seen := visited[neighbor]; !seen {
				queue = append(queue, neighbor)
			}
		}
	}

	delete(visited, from)
	return visited
}

// HasPath reports whether any route connects from to to.
func (r *Router) HasPath(from, to common.TokenId) bool {
	if from == to {
		return true
	}
	_, ok := r.ReachableTokens(from)[to]
	return ok
}
