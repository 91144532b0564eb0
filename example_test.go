package timeoutq_test

import (
	"fmt"
	"time"

	"timeoutq"
)

func ExampleQueue() {
	q := timeoutq.New[int]()
	if _, ok := q.Pop(); !ok {
		fmt.Println("empty")
	}

	q.Push(1, 1000*time.Millisecond)
	q.Push(2, 100*time.Millisecond)
	q.Push(3, 10*time.Millisecond)
	if _, ok := q.Pop(); !ok {
		fmt.Println("nothing due")
	}

	time.Sleep(50 * time.Millisecond)
	v, _ := q.Pop()
	fmt.Println(v)
	_, ok := q.Pop()
	fmt.Println(ok)

	// Output:
	// empty
	// nothing due
	// 3
	// false
}

func ExampleQueue_FilterPop() {
	q := timeoutq.New[int]()
	for i := 0; i < 10; i++ {
		q.Push(i, time.Duration(i)*time.Millisecond)
	}

	// items 0..5 fail the filter and are discarded on the spot; item 6
	// passes but is not due yet, so the scan stops there.
	if _, ok := q.FilterPop(func(n int) bool { return n > 5 }); !ok {
		fmt.Println("nothing due passed the filter")
	}

	time.Sleep(10 * time.Millisecond)
	v, _ := q.Pop()
	fmt.Println(v)

	// Output:
	// nothing due passed the filter
	// 6
}
