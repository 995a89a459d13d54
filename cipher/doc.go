// Package cipher implements the NESW hand cipher: each plaintext letter is
// replaced by the letter adjacent to it on a 5x5 key square in a compass
// direction that rotates after every letter, wrapping around the edges of
// the square.
//
// A message enciphered with a given configuration deciphers with the same
// configuration started from the opposite compass direction; everything else
// (keyword, replacement pair, step size, rotation sense) must match exactly.
package cipher
