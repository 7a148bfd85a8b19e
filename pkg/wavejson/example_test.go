package wavejson_test

import (
	"fmt"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

func ExampleParseString() {
	// Relaxed WaveJSON in, strict deterministic JSON out.
	doc, err := wavejson.ParseString(`
		// a short bus read
		{ signal: [
		  { name: 'clk',  wave: 'P....' },
		  { name: 'data', wave: 'x.34x', data: ['head', 'tail'] },
		], }`)
	if err != nil {
		fmt.Println("parse failed:", err)
		return
	}

	fmt.Println(doc)
	// Output:
	// {"signal":[{"name":"clk","wave":"P...."},{"name":"data","wave":"x.34x","data":["head","tail"]}]}
}

func ExampleDocument_WithDefaultSkin() {
	doc, _ := wavejson.ParseString(`{signal: [{name: 'clk', wave: 'p...'}]}`)

	fmt.Println(doc.WithDefaultSkin("narrow"))
	// Output:
	// {"signal":[{"name":"clk","wave":"p..."}],"config":{"skin":"narrow"}}
}
