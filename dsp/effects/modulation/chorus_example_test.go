package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/effects/modulation"
)

func ExampleChorus_ProcessInPlace() {
	c, err := modulation.NewChorus()
	if err != nil {
		fmt.Println("error")
		return
	}
	_ = c.SetStages(2)
	_ = c.SetMix(0.5)

	buf := make([]float64, 256)
	buf[0] = 1
	c.ProcessInPlace(buf)

	fmt.Printf("dry=%.2f voices=%d\n", buf[0], c.Stages())
	// Output:
	// dry=0.50 voices=2
}
