/*
Package lexmach provides an adapter to use the lexmachine scanner generator with
the parsers of package lr0.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

The adapter is initialized from the token rules of a grammar. Literal rules are
escaped, pattern rules are handed to lexmachine as they are. Clients therefore have
to restrict themselves to the regular expression syntax understood by lexmachine
(no anchors, no non-capturing groups, no word boundaries).

	LM, err := lexmach.NewLMAdapter(grammar.TokenRules())
	if err != nil {
		// do error handling
	}

A scanner is instantiated for each concrete input sequence.
The scanner implements the scanner.Tokenizer interface.

	scan, err := LM.Scanner("input string to tokenize")
	if err != nil {
		// do error handling
	}

Tokens are read until the end-of-input token has been delivered.

	for {
		token, err := scan.Next()
		if err != nil || token == nil {
			break
		}
		…
	}

Other than scanner.Lexer, lexmachine always selects the longest match. Clients
will want to plug the adapter into a parser:

	parser, err := lr0.NewParser(grammar, lr0.WithTokenizer(LM.Tokenizer))

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
