package frame_test

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/frame"
)

func ExampleAnalyzer() {
	ana, _ := frame.NewAnalyzer[float64](4, 2, 0)
	buf := make([]float64, 4)
	for x := 1.0; x <= 6; x++ {
		if ana.ProcessSample(x) {
			ana.GetFrame(buf)
			fmt.Println(buf)
		}
	}
	// Output:
	// [0 0 1 2]
	// [1 2 3 4]
	// [3 4 5 6]
}
