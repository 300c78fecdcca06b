package emulator

import "testing"

func TestRegisterNames(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(GetRegisterName(0) == "r0")
	assert(GetRegisterName(31) == "ra")
	assert(GetRegisterIndexByName("sp") == 29)
	assert(GetRegisterIndexByName("bogus") == 0)
	assert(len(RegisterNames) == 32)
}

func TestAdd32Overflow(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	v, err := add32Overflow(1, 2)
	assert(v == 3 && err == nil)

	_, err = add32Overflow(0x7fffffff, 1)
	assert(err == errOverflow)

	_, err = add32Overflow(-0x80000000, -1)
	assert(err == errOverflow)

	v, err = add32Overflow(0x7fffffff, -1)
	assert(v == 0x7ffffffe && err == nil)
}

func TestSub32Overflow(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	v, err := sub32Overflow(5, 7)
	assert(v == -2 && err == nil)

	_, err = sub32Overflow(-0x80000000, 1)
	assert(err == errOverflow)

	_, err = sub32Overflow(0x7fffffff, -1)
	assert(err == errOverflow)
}

func TestAccessSizes(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(accessSizeU32(ACCESS_BYTE, 0x11223344) == byte(0x44))
	assert(accessSizeU32(ACCESS_HALFWORD, 0x11223344) == uint16(0x3344))
	assert(accessSizeU32(ACCESS_WORD, 0x11223344) == uint32(0x11223344))

	assert(accessSizeToU32(ACCESS_BYTE, byte(0xab)) == 0xab)
	assert(accessSizeToU32(ACCESS_HALFWORD, uint16(0xabcd)) == 0xabcd)
	assert(accessSizeToU32(ACCESS_WORD, uint32(0xdeadbeef)) == 0xdeadbeef)

	assert(oneIfTrue(true) == 1)
	assert(oneIfTrue(false) == 0)
}
