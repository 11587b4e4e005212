package bitset_test

import (
	"fmt"

	"github.com/matzehuels/itemshuffle/pkg/bitset"
)

func Example() {
	has := bitset.From(0, 2, 130)
	probe := has.Without(2)

	fmt.Println(has, probe)
	fmt.Println(has.ContainsAll(probe), probe.Has(2))
	// Output:
	// {0,2,130} {0,130}
	// true false
}
