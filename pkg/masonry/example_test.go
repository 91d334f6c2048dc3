package masonry_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/recycleview/pkg/masonry"
)

func ExampleEngine() {
	engine, err := masonry.New(masonry.Options[string, string]{
		MinWidth:   100,
		MinHeight:  100,
		Gap:        12,
		RenderItem: func(s string) string { return "[" + s + "]" },
		Load: func(context.Context) ([]string, error) {
			return []string{"woof", "meow", "baaah"}, nil
		},
	})
	if err != nil {
		panic(err)
	}

	surface := masonry.NewEmitter()
	if err := engine.Mount(context.Background(), surface); err != nil {
		panic(err)
	}
	defer engine.Unmount()

	surface.Resize(312, 600)
	if err := engine.Load(context.Background()); err != nil {
		panic(err)
	}

	for i, col := range engine.Layout().Columns {
		fmt.Printf("column %d (height %v):", i, col.Height)
		for _, e := range col.Items {
			fmt.Printf(" %d%s", e.Index, e.View)
		}
		fmt.Println()
	}
	// Output:
	// column 0 (height 224): 0[woof] 2[baaah]
	// column 1 (height 112): 1[meow]
}

func ExampleVisibleRange() {
	r := masonry.VisibleRange(0, 300, 100, 12, 3)
	fmt.Println(r.Start, r.End)
	// Output: 0 2
}

func ExampleColumnCount() {
	fmt.Println(masonry.ColumnCount(312, 100, 12, 300))
	// Output: 2
}
