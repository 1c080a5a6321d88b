// Package minimizer implements the two-level Boolean minimizer spec §4.5
// treats as an external collaborator: given an on-set and a don't-care
// set over k variables, produce a sound sum-of-products cover (or a
// constant true/false when the cover degenerates to one).
//
// It is a standard Quine-McCluskey prime-implicant reduction followed by
// essential-prime selection and a deterministic greedy cover for whatever
// on-minterms remain. It is not Petrick's method, so the cover it returns
// is sound but not guaranteed to be globally minimal; the emitter only
// needs soundness and a small cover, not a proof of optimality.
package minimizer

import "sort"

// Product is one term of a sum-of-products cover. A bit set in CareMask is
// required in the product; its required value is the corresponding bit of
// ValueBits. Bits clear in CareMask are don't-cares within the product.
type Product struct {
	ValueBits int
	CareMask  int
}

// Result is the minimizer's output: either a constant, or a non-empty
// cover.
type Result struct {
	IsConstant    bool
	ConstantValue bool
	Products      []Product
}

// Simplify returns a sound cover over k variables: every minterm in on is
// covered by some product, and no minterm outside on ∪ dontCare is ever
// covered.
func Simplify(k int, on, dontCare []int) Result {
	onSet := toSet(on)
	if len(onSet) == 0 {
		return Result{IsConstant: true, ConstantValue: false}
	}

	all := toSet(on)
	for _, m := range dontCare {
		all[m] = true
	}

	primes := primeImplicants(k, all)
	selected := selectCover(primes, onSet)

	if len(selected) == 1 && selected[0].mask == 0 {
		return Result{IsConstant: true, ConstantValue: true}
	}

	products := make([]Product, len(selected))
	for i, im := range selected {
		products[i] = Product{ValueBits: im.value & im.mask, CareMask: im.mask}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CareMask != products[j].CareMask {
			return products[i].CareMask < products[j].CareMask
		}
		return products[i].ValueBits < products[j].ValueBits
	})
	return Result{Products: products}
}

// implicant is a candidate product mid-reduction. mask has a 1 bit
// wherever the literal is still fixed; value holds the required pattern
// within those fixed positions.
type implicant struct {
	value, mask int
}

func (im implicant) covers(m int) bool {
	return im.value&im.mask == m&im.mask
}

func toSet(xs []int) map[int]bool {
	s := make(map[int]bool, len(xs))
	for _, x := range xs {
		s[x] = true
	}
	return s
}

func popcount(x int) int {
	c := 0
	for x != 0 {
		x &= x - 1
		c++
	}
	return c
}

// primeImplicants runs the Quine-McCluskey merge: implicants sharing a
// mask and differing in exactly one still-fixed bit combine into a wider
// implicant with that bit freed. Anything that survives a round unmerged
// is prime.
func primeImplicants(k int, minterms map[int]bool) []implicant {
	fullMask := (1 << uint(k)) - 1

	current := make([]implicant, 0, len(minterms))
	for m := range minterms {
		current = append(current, implicant{value: m & fullMask, mask: fullMask})
	}

	var primes []implicant
	for len(current) > 0 {
		used := make(map[implicant]bool, len(current))
		nextSet := make(map[implicant]bool)

		byMask := make(map[int][]implicant)
		for _, im := range current {
			byMask[im.mask] = append(byMask[im.mask], im)
		}

		for mask, group := range byMask {
			byPop := make(map[int][]implicant)
			var pops []int
			for _, im := range group {
				pc := popcount(im.value & mask)
				if _, ok := byPop[pc]; !ok {
					pops = append(pops, pc)
				}
				byPop[pc] = append(byPop[pc], im)
			}
			sort.Ints(pops)
			for _, pc := range pops {
				for _, a := range byPop[pc] {
					for _, b := range byPop[pc+1] {
						diff := a.value ^ b.value
						if diff != 0 && diff&(diff-1) == 0 && diff&mask == diff {
							newMask := mask &^ diff
							nextSet[implicant{value: a.value & newMask, mask: newMask}] = true
							used[a] = true
							used[b] = true
						}
					}
				}
			}
		}

		for _, im := range current {
			if !used[im] {
				primes = append(primes, im)
			}
		}

		current = current[:0]
		for im := range nextSet {
			current = append(current, im)
		}
	}

	return dedupe(primes)
}

func dedupe(xs []implicant) []implicant {
	seen := make(map[implicant]bool, len(xs))
	out := make([]implicant, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// selectCover picks essential primes first (the unique cover of some
// on-minterm), then greedily covers whatever remains, always breaking
// ties by a fixed sort order so the result is deterministic across runs.
func selectCover(primes []implicant, onSet map[int]bool) []implicant {
	sort.Slice(primes, func(i, j int) bool {
		if primes[i].mask != primes[j].mask {
			return primes[i].mask < primes[j].mask
		}
		return primes[i].value < primes[j].value
	})

	remaining := make([]int, 0, len(onSet))
	for m := range onSet {
		remaining = append(remaining, m)
	}
	sort.Ints(remaining)

	chosen := make([]bool, len(primes))
	var selected []implicant

	for len(remaining) > 0 {
		idx := findEssential(primes, chosen, remaining)
		if idx < 0 {
			idx = bestGreedy(primes, chosen, remaining)
		}
		if idx < 0 {
			break
		}
		chosen[idx] = true
		selected = append(selected, primes[idx])
		remaining = removeCovered(remaining, primes[idx])
	}
	return selected
}

func findEssential(primes []implicant, chosen []bool, remaining []int) int {
	for _, m := range remaining {
		found, count := -1, 0
		for i, im := range primes {
			if chosen[i] || !im.covers(m) {
				continue
			}
			count++
			found = i
			if count > 1 {
				break
			}
		}
		if count == 1 {
			return found
		}
	}
	return -1
}

func bestGreedy(primes []implicant, chosen []bool, remaining []int) int {
	best, bestScore := -1, -1
	for i, im := range primes {
		if chosen[i] {
			continue
		}
		score := 0
		for _, m := range remaining {
			if im.covers(m) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

func removeCovered(remaining []int, im implicant) []int {
	out := remaining[:0]
	for _, m := range remaining {
		if !im.covers(m) {
			out = append(out, m)
		}
	}
	return out
}
