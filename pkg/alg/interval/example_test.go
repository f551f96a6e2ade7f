package interval_test

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/interval"
)

func Example() {
	ix := interval.NewWithOptions[int](interval.Options[string]{CompareValues: strings.Compare})

	for _, iv := range []interval.Entry[int, string]{
		{Low: 7, High: 10, Value: "A"},
		{Low: 5, High: 15, Value: "B"},
		{Low: 10, High: 20, Value: "C"},
		{Low: 7, High: 16, Value: "D"},
		{Low: 40, High: 50, Value: "E"},
	} {
		if err := ix.Insert(iv.Low, iv.High, iv.Value); err != nil {
			fmt.Println(err)
		}
	}

	for _, e := range ix.Overlapping(15, 30) {
		fmt.Println(e)
	}

	p, _ := ix.Percentile(0.6)
	fmt.Println("p60 low:", p)

	// Output:
	// [5, 15] B
	// [7, 16] D
	// [10, 20] C
	// p60 low: 7
}
