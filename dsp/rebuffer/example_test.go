package rebuffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/rebuffer"
)

func ExampleAdapter() {
	a, _ := rebuffer.New(4, func(block []int) {
		fmt.Println("block", block)
	})
	host := []int{1, 2, 3, 4, 5, 6}
	a.Process(host[:5])
	a.Process(host[5:])
	fmt.Println(host)
	// Output:
	// block [1 2 3 4]
	// [0 0 0 0 1 2]
}
