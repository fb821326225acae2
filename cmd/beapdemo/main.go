// Command beapdemo builds a beap from a literal sequence of integers and
// walks through find, insert, erase and a full descending drain, printing
// each step to stdout.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/beapdb/beap/beap"
)

var values = flag.String("values", "72,68,63,44,62,55,33,22,32,51,13,18,21,19,31,11,12,14,17,9,13,3,2,10",
	"Comma-separated integers to build the initial beap from")

func parseValues(s string) []int {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func main() {
	flag.Parse()

	b := beap.OfOrdered(parseValues(*values))
	fmt.Printf("built a beap of %d elements, capacity %d, top %d\n", b.Size(), b.Capacity(), b.Top())

	for _, v := range []int{33, 100} {
		if i := b.Find(v); i != b.End() {
			fmt.Printf("find(%d): present at index %d\n", v, i)
		} else {
			fmt.Printf("find(%d): absent\n", v)
		}
	}

	fmt.Printf("insert(54): index %d\n", b.Insert(54))
	fmt.Printf("contains(54): %v\n", b.Contains(54))

	if b.Erase(33); !b.Contains(33) {
		fmt.Println("erase(33): removed")
	}

	fmt.Print("draining in descending order: ")
	var drained []string
	for !b.Empty() {
		drained = append(drained, strconv.Itoa(b.Pop()))
	}
	fmt.Println(strings.Join(drained, " "))
}
